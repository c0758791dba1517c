package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
)

type fakeTenantRepo struct {
	tenants map[string]*models.Tenant
	nextID  uint
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[string]*models.Tenant), nextID: 1}
}

func (f *fakeTenantRepo) GetBySlug(slug string) (*models.Tenant, error) {
	t, ok := f.tenants[slug]
	if !ok {
		return nil, repository.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTenantRepo) Create(t *models.Tenant) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.tenants[t.Slug] = &cp
	return nil
}

func (f *fakeTenantRepo) Update(t *models.Tenant) error {
	cp := *t
	f.tenants[t.Slug] = &cp
	return nil
}

func (f *fakeTenantRepo) Merge(slug string, partial *models.Tenant) (*models.Tenant, error) {
	current, err := f.GetBySlug(slug)
	if err != nil {
		current = &models.Tenant{Slug: slug}
	}
	if partial.Email != "" {
		current.Email = partial.Email
	}
	if partial.FullName != "" {
		current.FullName = partial.FullName
	}
	if partial.Product != "" {
		current.Product = partial.Product
	}
	if partial.Website != "" {
		current.Website = partial.Website
	}
	if partial.Company != "" {
		current.Company = partial.Company
	}
	current.Subscription = partial.Subscription
	if partial.RawPayloadJSON != "" {
		current.RawPayloadJSON = partial.RawPayloadJSON
	}
	if current.ID == 0 {
		if err := f.Create(current); err != nil {
			return nil, err
		}
	} else if err := f.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

func (f *fakeTenantRepo) List(offset, limit int) ([]models.Tenant, error) { return nil, nil }
func (f *fakeTenantRepo) Count() (int64, error)                           { return int64(len(f.tenants)), nil }

type fakeEventRepo struct {
	events map[string]*models.WebhookEvent
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.WebhookEvent), nextID: 1}
}

func (f *fakeEventRepo) CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		cp := *stored
		return false, &cp, nil
	}
	event.ID = f.nextID
	f.nextID++
	cp := *event
	f.events[key] = &cp
	return true, event, nil
}

func (f *fakeEventRepo) MarkProcessed(id uint, tenantSlug, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.TenantSlug = tenantSlug
			e.ProcessingError = processingError
		}
	}
	return nil
}

func TestReconcile_CreatesTenantFromEmail(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := NewService(tenants, newFakeEventRepo(), "")

	payload := ParsePayload("application/json", []byte(`{
		"purchaser_email": "John.Doe@Example.com",
		"full_name": "John Doe",
		"product_name": "Betty Immo",
		"website": "https://johndoe.example"
	}`))

	tenant, err := svc.Reconcile(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected reconcile error: %v", err)
	}
	if tenant.Slug != "john-doe-example-com" {
		t.Fatalf("unexpected slug %q", tenant.Slug)
	}
	if !tenant.Subscription.Active {
		t.Fatalf("expected plain sale to yield an active subscription")
	}
	if tenant.RawPayloadJSON == "" {
		t.Fatalf("expected raw payload to be retained")
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { timeNow = orig }()

	tenants := newFakeTenantRepo()
	svc := NewService(tenants, newFakeEventRepo(), "")

	payload := ParsePayload("application/json", []byte(`{
		"purchaser_email": "jane@example.com",
		"product_name": "Betty Immo",
		"recurrence": "monthly"
	}`))

	first, err := svc.Reconcile(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Reconcile(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Slug != second.Slug || first.ID != second.ID {
		t.Fatalf("expected the same tenant record, got %q/%d and %q/%d", first.Slug, first.ID, second.Slug, second.ID)
	}
	if *first != *second {
		t.Fatalf("expected identical records with a pinned clock:\n%+v\n%+v", first, second)
	}
}

func TestReconcile_MergePreservesOmittedFields(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := NewService(tenants, newFakeEventRepo(), "")

	first := ParsePayload("application/json", []byte(`{
		"purchaser_email": "jane@example.com",
		"product_name": "Starter",
		"website": "https://jane.example",
		"company": "Jane LLC"
	}`))
	if _, err := svc.Reconcile(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := ParsePayload("application/json", []byte(`{
		"purchaser_email": "jane@example.com",
		"product_name": "Pro"
	}`))
	tenant, err := svc.Reconcile(context.Background(), second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tenant.Slug != "jane-example-com" {
		t.Fatalf("expected stable tenant id, got %q", tenant.Slug)
	}
	if tenant.Product != "Pro" {
		t.Fatalf("expected product to move forward, got %q", tenant.Product)
	}
	if tenant.Website != "https://jane.example" || tenant.Company != "Jane LLC" {
		t.Fatalf("expected omitted fields to be preserved, got website=%q company=%q", tenant.Website, tenant.Company)
	}
}

func TestReconcile_ExplicitTenantIDWins(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := NewService(tenants, newFakeEventRepo(), "")

	payload := ParsePayload("application/json", []byte(`{
		"tenant_id": "agency-west",
		"purchaser_email": "new-owner@example.com"
	}`))
	tenant, err := svc.Reconcile(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant.Slug != "agency-west" {
		t.Fatalf("expected explicit tenant id to win, got %q", tenant.Slug)
	}
	if tenant.Email != "new-owner@example.com" {
		t.Fatalf("expected email re-association, got %q", tenant.Email)
	}
}

func TestReconcile_AnonymousPayloadUsesClientHint(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := NewService(tenants, newFakeEventRepo(), "")

	tenant, err := svc.Reconcile(context.Background(), Payload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant.Slug != "client" {
		t.Fatalf("expected generic client hint, got %q", tenant.Slug)
	}
}

func TestRecordEvent_Deduplicates(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewService(newFakeTenantRepo(), events, "")
	ctx := context.Background()

	created, stored, err := svc.RecordEvent(ctx, "evt_1", []byte(`{"a":1}`), true)
	if err != nil || !created || stored.ID == 0 {
		t.Fatalf("expected first delivery to create an event, created=%v err=%v", created, err)
	}

	created, _, err = svc.RecordEvent(ctx, "evt_1", []byte(`{"a":1}`), true)
	if err != nil || created {
		t.Fatalf("expected duplicate delivery to be deduplicated, created=%v err=%v", created, err)
	}
}

func TestRecordEvent_HashFallbackForMissingEventID(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewService(newFakeTenantRepo(), events, "")
	ctx := context.Background()

	created, stored, err := svc.RecordEvent(ctx, "", []byte(`{"a":1}`), false)
	if err != nil || !created {
		t.Fatalf("expected creation, created=%v err=%v", created, err)
	}
	if stored.ProviderEventID == "" {
		t.Fatalf("expected synthesized event id")
	}

	created, _, err = svc.RecordEvent(ctx, "", []byte(`{"a":1}`), false)
	if err != nil || created {
		t.Fatalf("expected identical body to deduplicate, created=%v err=%v", created, err)
	}
}
