package implementation

import (
	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updateVersioned applies the optimistic-locking protocol shared by every
// versioned model: a single UPDATE guarded by the claimed lock_version, which
// also bumps the version. The check and the increment are one atomic statement
// at the storage layer, so two racing updates can never both win.
//
// When the guarded UPDATE touches no row, the row is re-read to tell a stale
// version (conflict) apart from a missing row (not found). Either way the row
// is left untouched.
func updateVersioned[M any](db *gorm.DB, resource string, id uuid.UUID, claimedVersion int, changes map[string]any) (*M, error) {
	var m M

	payload := make(map[string]any, len(changes)+1)
	for column, value := range changes {
		payload[column] = value
	}
	payload["lock_version"] = claimedVersion + 1

	res := db.Model(&m).
		Where("id = ? AND lock_version = ?", id, claimedVersion).
		Updates(payload)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&m).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperror.NewNotFound(resource, id)
		}
		return nil, apperror.NewConflict(resource)
	}

	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
