package app

import (
	"context"
	"io"
	"log/slog"

	"qook-backend/internal/llm"
	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
	"qook-backend/internal/shopping"
)

type stubPlanner struct {
	result *planner.PlanResult
	err    error
}

func (s *stubPlanner) GenerateWeeklyPlan(_ context.Context, _ *planner.PlanRequest) (*planner.PlanResult, error) {
	return s.result, s.err
}

type stubRecipeStore struct {
	recipes   map[string]*recipe.Recipe
	getErr    error
	updates   map[string]recipe.DetailUpdate
	imageURLs map[string]string
	updateErr error
}

func newStubRecipeStore() *stubRecipeStore {
	return &stubRecipeStore{
		recipes:   make(map[string]*recipe.Recipe),
		updates:   make(map[string]recipe.DetailUpdate),
		imageURLs: make(map[string]string),
	}
}

func (s *stubRecipeStore) Get(_ context.Context, id string) (*recipe.Recipe, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.recipes[id], nil
}

func (s *stubRecipeStore) UpdateDetails(_ context.Context, id string, upd recipe.DetailUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates[id] = upd
	return nil
}

func (s *stubRecipeStore) UpdateImageURL(_ context.Context, id, imageURL string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.imageURLs[id] = imageURL
	return nil
}

type stubTextGen struct {
	response  string
	err       error
	lastReq   llm.Request
	callCount int
}

func (s *stubTextGen) GenerateContent(_ context.Context, req llm.Request) (llm.ContentResponse, error) {
	s.callCount++
	s.lastReq = req
	if s.err != nil {
		return llm.ContentResponse{}, s.err
	}
	return llm.ContentResponse{Content: s.response}, nil
}

type stubUploader struct {
	url         string
	err         error
	gotData     []byte
	contentType string
}

func (s *stubUploader) Upload(_ context.Context, data []byte, contentType string) (string, error) {
	s.gotData = data
	s.contentType = contentType
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubMetrics struct {
	metas []shared.CallMeta
}

func (s *stubMetrics) RecordMeta(_ context.Context, meta shared.CallMeta) error {
	s.metas = append(s.metas, meta)
	return nil
}

type stubShoppingStore struct {
	lists   map[string]*shopping.List
	saved   []*shopping.List
	getErr  error
	saveErr error
}

func newStubShoppingStore() *stubShoppingStore {
	return &stubShoppingStore{lists: make(map[string]*shopping.List)}
}

func (s *stubShoppingStore) GetByPlanID(_ context.Context, planID string) (*shopping.List, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.lists[planID], nil
}

func (s *stubShoppingStore) Save(_ context.Context, list *shopping.List) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.saved = append(s.saved, list)
	return int64(len(s.saved)), nil
}

type testDeps struct {
	planner  *stubPlanner
	recipes  *stubRecipeStore
	textGen  *stubTextGen
	uploader *stubUploader
	metrics  *stubMetrics
	shopping *stubShoppingStore
}

func newTestApp(deps testDeps) *App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var uploader ImageUploader
	if deps.uploader != nil {
		uploader = deps.uploader
	}
	var shoppingStore ShoppingStore
	if deps.shopping != nil {
		shoppingStore = deps.shopping
	}
	if deps.recipes == nil {
		deps.recipes = newStubRecipeStore()
	}
	if deps.textGen == nil {
		deps.textGen = &stubTextGen{}
	}
	if deps.metrics == nil {
		deps.metrics = &stubMetrics{}
	}
	if deps.planner == nil {
		deps.planner = &stubPlanner{}
	}

	return New(deps.planner, deps.recipes, deps.textGen, uploader, deps.metrics, shoppingStore, "test-secret", logger)
}
