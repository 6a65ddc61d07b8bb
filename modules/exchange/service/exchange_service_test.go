package service

import (
	"context"
	"sync"
	"testing"

	"slotswap-api/core/database"
	"slotswap-api/core/errors"
	"slotswap-api/core/params"
	"slotswap-api/modules/activity/worker"
	"slotswap-api/modules/exchange/entity"
	"slotswap-api/modules/exchange/repository"
	slotentity "slotswap-api/modules/slot/entity"
	slotrepository "slotswap-api/modules/slot/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore backs the fake repositories. All mutation goes through the
// store mutex so concurrent tests observe consistent state.
type memStore struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*slotentity.Slot
	requests map[uuid.UUID]*entity.ExchangeRequest
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[uuid.UUID]*slotentity.Slot),
		requests: make(map[uuid.UUID]*entity.ExchangeRequest),
	}
}

func (s *memStore) addSlot(owner uuid.UUID, title string, status slotentity.SlotStatus) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.slots[id] = &slotentity.Slot{ID: id, OwnerID: owner, Title: title, Status: status}
	return id
}

func (s *memStore) slotCopy(id uuid.UUID) *slotentity.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil
	}
	cp := *slot
	return &cp
}

func (s *memStore) snapshot() (map[uuid.UUID]slotentity.Slot, map[uuid.UUID]entity.ExchangeRequest) {
	slots := make(map[uuid.UUID]slotentity.Slot, len(s.slots))
	for id, slot := range s.slots {
		slots[id] = *slot
	}
	reqs := make(map[uuid.UUID]entity.ExchangeRequest, len(s.requests))
	for id, req := range s.requests {
		reqs[id] = *req
	}
	return slots, reqs
}

func (s *memStore) restore(slots map[uuid.UUID]slotentity.Slot, reqs map[uuid.UUID]entity.ExchangeRequest) {
	s.slots = make(map[uuid.UUID]*slotentity.Slot, len(slots))
	for id, slot := range slots {
		cp := slot
		s.slots[id] = &cp
	}
	s.requests = make(map[uuid.UUID]*entity.ExchangeRequest, len(reqs))
	for id, req := range reqs {
		cp := req
		s.requests[id] = &cp
	}
}

// fakeTransactor serializes transactions on the store mutex and rolls the
// store back to its pre-transaction state when fn fails, matching what a
// real rollback would leave behind. beforeFn, when set, runs inside the
// transaction window before fn and models a writer that slipped in between
// the service's precondition reads and its commit.
type fakeTransactor struct {
	store    *memStore
	beforeFn func()
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ex database.Executor) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.beforeFn != nil {
		t.beforeFn()
		t.beforeFn = nil
	}

	slots, reqs := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(slots, reqs)
		return err
	}
	return nil
}

// fakeSlotRepo implements conditional writes with the same lost-race
// semantics as the SQL repository. The Executor-taking methods run only
// inside fakeTransactor, which already holds the store mutex, so they must
// not lock it again.
type fakeSlotRepo struct {
	store *memStore
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *slotentity.Slot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot.ID = uuid.New()
	cp := *slot
	r.store.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*slotentity.Slot, error) {
	return r.store.slotCopy(id), nil
}

func (r *fakeSlotRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]slotentity.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []slotentity.Slot
	for _, slot := range r.store.slots {
		if slot.OwnerID == ownerID {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListExchangeable(ctx context.Context, excludeOwner uuid.UUID, p params.QueryParams) ([]slotentity.SlotWithOwner, int, error) {
	return nil, 0, nil
}

func (r *fakeSlotRepo) UpdateStatus(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus, expectedStatus slotentity.SlotStatus) error {
	slot, ok := r.store.slots[id]
	if !ok || slot.Status != expectedStatus {
		return slotrepository.ErrStatusConflict
	}
	slot.Status = newStatus
	return nil
}

func (r *fakeSlotRepo) TransferOwnership(ctx context.Context, ex database.Executor, id uuid.UUID, newOwner uuid.UUID) error {
	slot, ok := r.store.slots[id]
	if !ok {
		return slotrepository.ErrStatusConflict
	}
	slot.OwnerID = newOwner
	return nil
}

type fakeExchangeRepo struct {
	store *memStore
}

func (r *fakeExchangeRepo) Create(ctx context.Context, ex database.Executor, req *entity.ExchangeRequest) error {
	req.ID = uuid.New()
	cp := *req
	r.store.requests[req.ID] = &cp
	return nil
}

func (r *fakeExchangeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExchangeRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *fakeExchangeRepo) Resolve(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus entity.ExchangeStatus) error {
	req, ok := r.store.requests[id]
	if !ok || req.Status != entity.ExchangeStatusPending {
		return repository.ErrResolveConflict
	}
	req.Status = newStatus
	return nil
}

func (r *fakeExchangeRepo) ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.ExchangeRequestDetail
	for _, req := range r.store.requests {
		if req.RequesteeID == userID && req.Status == entity.ExchangeStatusPending {
			out = append(out, entity.ExchangeRequestDetail{ExchangeRequest: *req})
		}
	}
	return out, nil
}

func (r *fakeExchangeRepo) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.ExchangeRequestDetail
	for _, req := range r.store.requests {
		if req.RequesterID == userID {
			out = append(out, entity.ExchangeRequestDetail{ExchangeRequest: *req})
		}
	}
	return out, nil
}

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []worker.ActivityPayload
}

func (f *fakeEnqueuer) RecordActivity(ctx context.Context, p worker.ActivityPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return nil
}

type fixture struct {
	store    *memStore
	tx       *fakeTransactor
	activity *fakeEnqueuer
	svc      *ExchangeService
}

func newFixture() *fixture {
	store := newMemStore()
	tx := &fakeTransactor{store: store}
	activity := &fakeEnqueuer{}
	svc := NewExchangeService(tx, &fakeExchangeRepo{store: store}, &fakeSlotRepo{store: store}, activity)
	return &fixture{store: store, tx: tx, activity: activity, svc: svc}
}

func TestProposeLocksBothSlots(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)

	req, appErr := f.svc.Propose(context.Background(), alice, offered, requested)
	require.Nil(t, appErr)
	require.NotNil(t, req)

	assert.Equal(t, entity.ExchangeStatusPending, req.Status)
	assert.Equal(t, alice, req.RequesterID)
	assert.Equal(t, bob, req.RequesteeID)
	assert.Equal(t, slotentity.SlotStatusExchangePending, f.store.slotCopy(offered).Status)
	assert.Equal(t, slotentity.SlotStatusExchangePending, f.store.slotCopy(requested).Status)
	assert.Len(t, f.activity.payloads, 2)
}

func TestProposeSlotNotFound(t *testing.T) {
	f := newFixture()
	alice := uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)

	_, appErr := f.svc.Propose(context.Background(), alice, offered, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestProposeRequiresOfferedSlotOwnership(t *testing.T) {
	f := newFixture()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	offered := f.store.addSlot(carol, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)

	_, appErr := f.svc.Propose(context.Background(), alice, offered, requested)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestProposeRejectsSelfExchange(t *testing.T) {
	f := newFixture()
	alice := uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(alice, "Tue 14-15", slotentity.SlotStatusExchangeable)

	_, appErr := f.svc.Propose(context.Background(), alice, offered, requested)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
}

func TestProposeRequiresExchangeableSlots(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusBusy)

	_, appErr := f.svc.Propose(context.Background(), alice, offered, requested)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidState, appErr.Code)
}

// A writer that locks the requested slot between the precondition reads and
// the commit must abort the whole proposal and leave no partial writes.
func TestProposeLostRaceRollsBack(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)

	f.tx.beforeFn = func() {
		f.store.slots[requested].Status = slotentity.SlotStatusExchangePending
	}

	_, appErr := f.svc.Propose(context.Background(), alice, offered, requested)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	assert.Equal(t, slotentity.SlotStatusExchangeable, f.store.slotCopy(offered).Status)
	f.store.mu.Lock()
	assert.Empty(t, f.store.requests)
	f.store.mu.Unlock()
}

func TestConcurrentProposalsOnOneSlot(t *testing.T) {
	f := newFixture()
	alice, bob, victim := uuid.New(), uuid.New(), uuid.New()
	aliceSlot := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	bobSlot := f.store.addSlot(bob, "Wed 11-12", slotentity.SlotStatusExchangeable)
	contested := f.store.addSlot(victim, "Fri 16-17", slotentity.SlotStatusExchangeable)

	errs := make([]*errors.AppError, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Propose(context.Background(), alice, aliceSlot, contested)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.Propose(context.Background(), bob, bobSlot, contested)
	}()
	wg.Wait()

	successes := 0
	for _, appErr := range errs {
		if appErr == nil {
			successes++
			continue
		}
		// The loser sees Conflict when it lost inside the transaction and
		// InvalidState when the winner committed before its precondition read.
		assert.Contains(t, []errors.ErrorCode{errors.ErrConflict, errors.ErrInvalidState}, appErr.Code)
	}
	require.Equal(t, 1, successes)

	assert.Equal(t, slotentity.SlotStatusExchangePending, f.store.slotCopy(contested).Status)
	f.store.mu.Lock()
	assert.Len(t, f.store.requests, 1)
	f.store.mu.Unlock()
}

func proposeOK(t *testing.T, f *fixture, requester, offered, requested uuid.UUID) *entity.ExchangeRequest {
	t.Helper()
	req, appErr := f.svc.Propose(context.Background(), requester, offered, requested)
	require.Nil(t, appErr)
	return req
}

func TestResolveAcceptSwapsOwnership(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)
	req := proposeOK(t, f, alice, offered, requested)

	res, appErr := f.svc.Resolve(context.Background(), bob, req.ID, entity.OutcomeAccept)
	require.Nil(t, appErr)
	require.NotNil(t, res)

	assert.Equal(t, entity.ExchangeStatusAccepted, res.Request.Status)
	require.NotNil(t, res.Request.RespondedAt)

	offeredNow := f.store.slotCopy(offered)
	requestedNow := f.store.slotCopy(requested)
	assert.Equal(t, bob, offeredNow.OwnerID)
	assert.Equal(t, alice, requestedNow.OwnerID)
	assert.Equal(t, slotentity.SlotStatusBusy, offeredNow.Status)
	assert.Equal(t, slotentity.SlotStatusBusy, requestedNow.Status)
}

func TestResolveRejectRestoresSlots(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)
	req := proposeOK(t, f, alice, offered, requested)

	res, appErr := f.svc.Resolve(context.Background(), bob, req.ID, entity.OutcomeReject)
	require.Nil(t, appErr)

	assert.Equal(t, entity.ExchangeStatusRejected, res.Request.Status)

	offeredNow := f.store.slotCopy(offered)
	requestedNow := f.store.slotCopy(requested)
	assert.Equal(t, alice, offeredNow.OwnerID)
	assert.Equal(t, bob, requestedNow.OwnerID)
	assert.Equal(t, slotentity.SlotStatusExchangeable, offeredNow.Status)
	assert.Equal(t, slotentity.SlotStatusExchangeable, requestedNow.Status)
}

func TestResolveOnlyByRequestee(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)
	req := proposeOK(t, f, alice, offered, requested)

	for _, responder := range []uuid.UUID{alice, uuid.New()} {
		_, appErr := f.svc.Resolve(context.Background(), responder, req.ID, entity.OutcomeAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	}
}

func TestResolveIsTerminal(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)
	req := proposeOK(t, f, alice, offered, requested)

	_, appErr := f.svc.Resolve(context.Background(), bob, req.ID, entity.OutcomeReject)
	require.Nil(t, appErr)

	_, appErr = f.svc.Resolve(context.Background(), bob, req.ID, entity.OutcomeAccept)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidState, appErr.Code)
}

func TestResolveUnknownRequest(t *testing.T) {
	f := newFixture()
	_, appErr := f.svc.Resolve(context.Background(), uuid.New(), uuid.New(), entity.OutcomeAccept)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestResolveRejectsUnknownOutcome(t *testing.T) {
	f := newFixture()
	_, appErr := f.svc.Resolve(context.Background(), uuid.New(), uuid.New(), entity.ExchangeOutcome("MAYBE"))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
}

func TestListMineSplitsDirections(t *testing.T) {
	f := newFixture()
	alice, bob := uuid.New(), uuid.New()
	offered := f.store.addSlot(alice, "Mon 9-10", slotentity.SlotStatusExchangeable)
	requested := f.store.addSlot(bob, "Tue 14-15", slotentity.SlotStatusExchangeable)
	proposeOK(t, f, alice, offered, requested)

	aliceView, appErr := f.svc.ListMine(context.Background(), alice)
	require.Nil(t, appErr)
	assert.Empty(t, aliceView.Incoming)
	assert.Len(t, aliceView.Outgoing, 1)

	bobView, appErr := f.svc.ListMine(context.Background(), bob)
	require.Nil(t, appErr)
	assert.Len(t, bobView.Incoming, 1)
	assert.Empty(t, bobView.Outgoing)
}
