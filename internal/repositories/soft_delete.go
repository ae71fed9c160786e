package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Helpers shared by the soft-deletable catalog entities. model is a pointer
// to the zero value of the entity, e.g. &models.Category{}.

func softDelete(ctx context.Context, db *gorm.DB, model any, id, op string) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

func restore(ctx context.Context, db *gorm.DB, model any, id, op string) error {
	res := db.WithContext(ctx).Unscoped().Model(model).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

func hardDelete(ctx context.Context, db *gorm.DB, model any, id, op string) error {
	res := db.WithContext(ctx).Unscoped().Delete(model, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

// likePattern builds a case-insensitive LIKE operand for keyword.
func likePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}
