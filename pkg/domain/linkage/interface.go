package linkage

import (
	"context"
	"errors"
	"fmt"

	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdb "github.com/atol-canopy/canopy/pkg/domain/linkage/db"
)

type Interface interface {
	Database() kdb.LinkageInterface

	// Resolve looks up the parents referenced by natural keys in the raw
	// fields of a record about to be ingested.
	//
	// An optional reference which cannot be resolved is dropped, not an
	// error (the record is created unlinked). A required reference which
	// is absent or unresolvable fails with domain.ErrMissingLink.
	//
	// # Returns
	//
	// - map[domain.LinkRole]string: link role -> resolved main-record id
	Resolve(ctx context.Context, kind domain.EntityKind, raw domain.Payload) (map[domain.LinkRole]string, error)
}

type impl struct {
	database kdb.LinkageInterface
}

func New(database kdb.LinkageInterface) Interface {
	return &impl{
		database: database,
	}
}

func (i *impl) Database() kdb.LinkageInterface {
	return i.database
}

func (i *impl) Resolve(ctx context.Context, kind domain.EntityKind, raw domain.Payload) (map[domain.LinkRole]string, error) {
	spec, ok := domain.Spec(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}

	links := map[domain.LinkRole]string{}
	for _, l := range spec.Links {
		naturalKey, _ := raw[l.Field].(string)
		if naturalKey == "" {
			if l.Required {
				return nil, domain.NewErrMissingLink(kind, l.Role, "")
			}
			continue
		}

		id, err := i.database.IdByNaturalKey(ctx, l.Target, naturalKey)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				if l.Required {
					return nil, domain.NewErrMissingLink(kind, l.Role, naturalKey)
				}
				// permissive bulk-import semantics: a dangling optional
				// reference skips the relationship, not the record
				continue
			}
			return nil, err
		}
		links[l.Role] = id
	}
	return links, nil
}
