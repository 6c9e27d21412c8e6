package history

import (
	"github.com/atol-canopy/canopy/pkg/domain/history/db"
)

type Interface interface {
	Database() db.HistoryInterface
}

type impl struct {
	database db.HistoryInterface
}

func New(database db.HistoryInterface) Interface {
	return &impl{
		database: database,
	}
}

func (i *impl) Database() db.HistoryInterface {
	return i.database
}
