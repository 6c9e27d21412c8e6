package staging

import (
	"github.com/atol-canopy/canopy/pkg/domain/staging/db"
)

type Interface interface {
	Database() db.StagingInterface
}

type impl struct {
	database db.StagingInterface
}

func New(database db.StagingInterface) Interface {
	return &impl{
		database: database,
	}
}

func (i *impl) Database() db.StagingInterface {
	return i.database
}
