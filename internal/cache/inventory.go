package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BusinessKeyPrefix = "business:%d"
	CategoryListKey   = "categories"
)

const (
	BusinessTTL     = 10 * time.Minute
	CategoryListTTL = 30 * time.Minute
)

func BusinessKey(businessID uint) string {
	return fmt.Sprintf(BusinessKeyPrefix, businessID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateBusiness drops the cached business detail, called whenever a
// review write recomputes the average or an admin edits the business.
func InvalidateBusiness(ctx context.Context, businessID uint) {
	Invalidate(ctx, BusinessKey(businessID))
}

func InvalidateCategoryList(ctx context.Context) {
	Invalidate(ctx, CategoryListKey)
}
