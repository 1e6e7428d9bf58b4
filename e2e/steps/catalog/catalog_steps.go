package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetLastBody() []byte
	GetCatalogRoute() string
}

// RegisterSteps registers catalog step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &catalogSteps{tc: tc}

	ctx.Step(`^I list the catalog$`, steps.listCatalog)
	ctx.Step(`^I list the featured items$`, steps.listFeatured)
	ctx.Step(`^I fetch the catalog item "([^"]*)"$`, steps.fetchItem)
	ctx.Step(`^the response should list (\d+) items$`, steps.responseShouldListNItems)
	ctx.Step(`^the first item should be "([^"]*)"$`, steps.firstItemShouldBe)
	ctx.Step(`^every item should be featured$`, steps.everyItemShouldBeFeatured)
	ctx.Step(`^the item should have title "([^"]*)"$`, steps.itemShouldHaveTitle)
}

type item struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	IsFeatured bool   `json:"isFeatured"`
}

type catalogSteps struct {
	tc TestContext
}

func (s *catalogSteps) base() string {
	return "/api/" + s.tc.GetCatalogRoute()
}

func (s *catalogSteps) listCatalog(ctx context.Context) error {
	return s.tc.GET(s.base(), nil)
}

func (s *catalogSteps) listFeatured(ctx context.Context) error {
	return s.tc.GET(s.base()+"/featured", nil)
}

func (s *catalogSteps) fetchItem(ctx context.Context, id string) error {
	return s.tc.GET(s.base()+"/"+id, nil)
}

func (s *catalogSteps) items() ([]item, error) {
	var items []item
	if err := json.Unmarshal(s.tc.GetLastBody(), &items); err != nil {
		return nil, fmt.Errorf("response is not an item list: %w", err)
	}
	return items, nil
}

func (s *catalogSteps) responseShouldListNItems(ctx context.Context, n int) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}

func (s *catalogSteps) firstItemShouldBe(ctx context.Context, id string) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	if len(items) == 0 || items[0].ID != id {
		return fmt.Errorf("expected first item %q, got %+v", id, items)
	}
	return nil
}

func (s *catalogSteps) everyItemShouldBeFeatured(ctx context.Context) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	for _, it := range items {
		if !it.IsFeatured {
			return fmt.Errorf("item %q is not featured", it.ID)
		}
	}
	return nil
}

func (s *catalogSteps) itemShouldHaveTitle(ctx context.Context, title string) error {
	var it item
	if err := json.Unmarshal(s.tc.GetLastBody(), &it); err != nil {
		return fmt.Errorf("response is not an item: %w", err)
	}
	if it.Title != title {
		return fmt.Errorf("expected title %q, got %q", title, it.Title)
	}
	return nil
}
