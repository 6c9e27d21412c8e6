package db

import (
	kentity "github.com/atol-canopy/canopy/pkg/domain/entity/db"
	khistory "github.com/atol-canopy/canopy/pkg/domain/history/db"
	klinkage "github.com/atol-canopy/canopy/pkg/domain/linkage/db"
	kschema "github.com/atol-canopy/canopy/pkg/domain/schema/db"
	ksession "github.com/atol-canopy/canopy/pkg/domain/session/db"
	kstaging "github.com/atol-canopy/canopy/pkg/domain/staging/db"
)

type CanopyDatabase interface {
	Session() ksession.SessionInterface
	Entity() kentity.EntityInterface
	Staging() kstaging.StagingInterface
	History() khistory.HistoryInterface
	Linkage() klinkage.LinkageInterface
	Schema() kschema.SchemaInterface
	Close() error
}
