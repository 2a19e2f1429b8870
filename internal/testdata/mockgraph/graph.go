package mockgraph

import (
	"context"
	"time"

	"ads-activity-tracker/internal/graph"
	"ads-activity-tracker/internal/model"

	"github.com/stretchr/testify/mock"
)

type API struct {
	mock.Mock
}

var _ graph.API = &API{}

func (m *API) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	args := m.Called(ctx, accountID)
	var out []model.Campaign
	if v := args.Get(0); v != nil {
		out = v.([]model.Campaign)
	}
	return out, args.Error(1)
}

func (m *API) ListAdSets(ctx context.Context, accountID string) ([]model.AdSetRef, error) {
	args := m.Called(ctx, accountID)
	var out []model.AdSetRef
	if v := args.Get(0); v != nil {
		out = v.([]model.AdSetRef)
	}
	return out, args.Error(1)
}

func (m *API) ListAds(ctx context.Context, accountID string) ([]model.AdRef, error) {
	args := m.Called(ctx, accountID)
	var out []model.AdRef
	if v := args.Get(0); v != nil {
		out = v.([]model.AdRef)
	}
	return out, args.Error(1)
}

func (m *API) ListActivities(ctx context.Context, accountID string, since, until time.Time) ([]model.ActivityEvent, error) {
	args := m.Called(ctx, accountID, since, until)
	var out []model.ActivityEvent
	if v := args.Get(0); v != nil {
		out = v.([]model.ActivityEvent)
	}
	return out, args.Error(1)
}
