package entity

import (
	"github.com/atol-canopy/canopy/pkg/domain/entity/db"
)

type Interface interface {
	Database() db.EntityInterface
}

type impl struct {
	database db.EntityInterface
}

func New(database db.EntityInterface) Interface {
	return &impl{
		database: database,
	}
}

func (i *impl) Database() db.EntityInterface {
	return i.database
}
