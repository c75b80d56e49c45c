package sources

import (
	"context"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/model"
)

// FetchFunc pulls the items of one container.
type FetchFunc func(ctx context.Context, list *model.ItemList) ([]*model.Item, error)

// FetchFromLists pulls every container sequentially and concatenates
// the results. A container that fails contributes zero items; the
// failure is logged and the remaining containers are still fetched.
func FetchFromLists(ctx context.Context, log *zap.Logger, lists []*model.ItemList, fetch FetchFunc) []*model.Item {
	if len(lists) == 0 {
		log.Info("no containers to fetch")
		return nil
	}
	var items []*model.Item
	for _, list := range lists {
		fetched, err := fetch(ctx, list)
		if err != nil {
			log.Warn("container fetch failed, contributing zero items",
				zap.String("list_id", list.ID),
				zap.String("list_name", list.Name),
				zap.Error(err))
			continue
		}
		log.Debug("container fetched",
			zap.String("list_name", list.Name),
			zap.Int("items", len(fetched)))
		items = append(items, fetched...)
	}
	return items
}
