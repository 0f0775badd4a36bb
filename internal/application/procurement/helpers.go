package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// buildFilter builds a domain filter with list defaults applied
func buildFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
}

// newItemRef builds an item reference from transport-level fields
func newItemRef(kind string, id uuid.UUID, name, code, unit string) (procurement.ItemRef, error) {
	switch procurement.ItemKind(kind) {
	case procurement.ItemKindService:
		return procurement.NewServiceRef(id, name, code)
	default:
		return procurement.NewProductRef(id, name, code, unit)
	}
}

// timeOrZero dereferences an optional timestamp, zero when nil
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
