package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
	kdbhistory "github.com/atol-canopy/canopy/pkg/domain/history/db"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
)

type HistoryInterface struct {
	Impl struct {
		RecordFetch func(context.Context, string, domain.Payload, time.Time, bool) (domain.FetchedRecord, error)
		History     func(context.Context, string, int, int) ([]domain.FetchedRecord, error)
	}
	Calls struct {
		RecordFetch dbmock.CallLog[struct {
			EntityId  string
			Raw       domain.Payload
			FetchedAt time.Time
			Synced    bool
		}]
		History dbmock.CallLog[struct {
			EntityId      string
			Offset, Limit int
		}]
	}
}

func NewHistoryInterface() *HistoryInterface {
	return &HistoryInterface{}
}

var _ kdbhistory.HistoryInterface = &HistoryInterface{}

func (hi *HistoryInterface) RecordFetch(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error) {
	hi.Calls.RecordFetch = append(hi.Calls.RecordFetch, struct {
		EntityId  string
		Raw       domain.Payload
		FetchedAt time.Time
		Synced    bool
	}{
		EntityId: entityId, Raw: raw, FetchedAt: fetchedAt, Synced: synced,
	})
	if hi.Impl.RecordFetch != nil {
		return hi.Impl.RecordFetch(ctx, entityId, raw, fetchedAt, synced)
	}
	panic(errors.New("it should not be called"))
}

func (hi *HistoryInterface) History(ctx context.Context, entityId string, offset int, limit int) ([]domain.FetchedRecord, error) {
	hi.Calls.History = append(hi.Calls.History, struct {
		EntityId      string
		Offset, Limit int
	}{EntityId: entityId, Offset: offset, Limit: limit})
	if hi.Impl.History != nil {
		return hi.Impl.History(ctx, entityId, offset, limit)
	}
	panic(errors.New("it should not be called"))
}
