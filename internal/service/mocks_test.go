package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/google/uuid"
)

// ---------- Mocks ----------

type mockProfilesRepo struct {
	byID map[uuid.UUID]*domain.Profile
}

func newMockProfilesRepo() *mockProfilesRepo {
	return &mockProfilesRepo{byID: make(map[uuid.UUID]*domain.Profile)}
}

func (m *mockProfilesRepo) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	for _, existing := range m.byID {
		if existing.Email == p.Email {
			return nil, domain.ErrEmailExists
		}
	}
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockProfilesRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range m.byID {
		if p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockProfilesRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *mockProfilesRepo) Update(_ context.Context, id uuid.UUID, in domain.ProfileUpdate) (*domain.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	p.FullName = in.FullName
	p.Phone = in.Phone
	p.UpdatedAt = time.Now()
	out := *p
	return &out, nil
}

// add stores a ready-made profile and returns its actor.
func (m *mockProfilesRepo) add(name string, admin bool) *domain.Actor {
	p := &domain.Profile{
		ID:            uuid.New(),
		FullName:      name,
		Email:         name + "@seed.test",
		IsAdmin:       admin,
		EmailVerified: true,
	}
	m.byID[p.ID] = p
	return domain.NewActor(p)
}

type mockVerifyRepo struct {
	tokens   map[uuid.UUID]uuid.UUID // token -> profile
	expiry   map[uuid.UUID]time.Time
	repo     *mockProfilesRepo
	failNext error
}

func newMockVerifyRepo(repo *mockProfilesRepo) *mockVerifyRepo {
	return &mockVerifyRepo{
		tokens: make(map[uuid.UUID]uuid.UUID),
		expiry: make(map[uuid.UUID]time.Time),
		repo:   repo,
	}
}

func (m *mockVerifyRepo) CreateEmailVerification(_ context.Context, profileID, token uuid.UUID, expiresAt time.Time) error {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.tokens[token] = profileID
	m.expiry[token] = expiresAt
	return nil
}

func (m *mockVerifyRepo) ConsumeEmailVerification(_ context.Context, token uuid.UUID) (uuid.UUID, error) {
	id, ok := m.tokens[token]
	if !ok || time.Now().After(m.expiry[token]) {
		return uuid.Nil, nil
	}
	delete(m.tokens, token)
	if p, ok := m.repo.byID[id]; ok {
		p.EmailVerified = true
	}
	return id, nil
}

// latest returns any outstanding token, for tests that only issue one.
func (m *mockVerifyRepo) latest() uuid.UUID {
	for tok := range m.tokens {
		return tok
	}
	return uuid.Nil
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Actor
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*domain.Actor)}
}

func (m *mockSessionStore) Put(_ context.Context, sid string, a *domain.Actor, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.sessions[sid] = &cp
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, sid string) (*domain.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.sessions[sid]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockSessionStore) Refresh(_ context.Context, sid string, a *domain.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sid]; ok {
		cp := *a
		m.sessions[sid] = &cp
	}
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

var _ session.Store = (*mockSessionStore)(nil)

type mockMailer struct {
	lastTo  string
	lastURL string
	sendErr error
}

func (m *mockMailer) SendConfirmation(_ context.Context, toEmail, _, confirmURL string) error {
	m.lastTo = toEmail
	m.lastURL = confirmURL
	return m.sendErr
}

type mockBus struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockBus) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockBus) Close() error { return nil }

func (m *mockBus) count(subject string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

type mockDestinationsRepo struct {
	dests map[int64]*domain.Destination
	calls int
}

func newMockDestinationsRepo(names ...string) *mockDestinationsRepo {
	m := &mockDestinationsRepo{dests: make(map[int64]*domain.Destination)}
	for i, n := range names {
		id := int64(i + 1)
		m.dests[id] = &domain.Destination{ID: id, Name: n, Image: "dest/" + n + ".jpg"}
	}
	return m
}

func (m *mockDestinationsRepo) List(context.Context) ([]domain.Destination, error) {
	m.calls++
	out := make([]domain.Destination, 0, len(m.dests))
	for _, d := range m.dests {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDestinationsRepo) FindByID(_ context.Context, id int64) (*domain.Destination, error) {
	d, ok := m.dests[id]
	if !ok {
		return nil, nil
	}
	out := *d
	return &out, nil
}

type mockToursRepo struct {
	nextID    int64
	tours     map[int64]*domain.Tour
	dests     *mockDestinationsRepo
	listCalls int
}

func newMockToursRepo(dests *mockDestinationsRepo) *mockToursRepo {
	return &mockToursRepo{nextID: 1, tours: make(map[int64]*domain.Tour), dests: dests}
}

func (m *mockToursRepo) joined(t *domain.Tour) domain.Tour {
	out := *t
	if d, ok := m.dests.dests[t.DestinationID]; ok {
		dc := *d
		out.Destination = &dc
	}
	return out
}

// ListWithDestination returns newest first, which for the mock is highest id.
func (m *mockToursRepo) ListWithDestination(context.Context) ([]domain.Tour, error) {
	m.listCalls++
	var out []domain.Tour
	for _, t := range m.tours {
		if _, ok := m.dests.dests[t.DestinationID]; !ok {
			continue
		}
		out = append(out, m.joined(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockToursRepo) ListByCreator(_ context.Context, createdBy uuid.UUID) ([]domain.Tour, error) {
	var out []domain.Tour
	for _, t := range m.tours {
		if t.CreatedBy == createdBy {
			out = append(out, m.joined(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockToursRepo) FindByID(_ context.Context, id int64) (*domain.Tour, error) {
	t, ok := m.tours[id]
	if !ok {
		return nil, nil
	}
	out := m.joined(t)
	return &out, nil
}

func (m *mockToursRepo) Create(_ context.Context, in domain.TourInput, createdBy uuid.UUID) (*domain.Tour, error) {
	id := m.nextID
	m.nextID++
	t := &domain.Tour{
		ID:            id,
		Name:          in.Name,
		DestinationID: in.DestinationID,
		Description:   in.Description,
		PickupPoint:   in.PickupPoint,
		Duration:      in.Duration,
		Services:      in.Services,
		MaxPeople:     in.MaxPeople,
		Price:         in.Price,
		Date:          in.Date,
		Images:        in.Images,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.tours[id] = t
	out := *t
	return &out, nil
}

func (m *mockToursRepo) Update(_ context.Context, t *domain.Tour) (*domain.Tour, error) {
	cur, ok := m.tours[t.ID]
	if !ok {
		return nil, nil
	}
	cur.Name = t.Name
	cur.Description = t.Description
	cur.MaxPeople = t.MaxPeople
	cur.Date = t.Date
	cur.Price = t.Price
	cur.UpdatedAt = time.Now()
	out := *cur
	return &out, nil
}

func (m *mockToursRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.tours[id]; !ok {
		return false, nil
	}
	delete(m.tours, id)
	return true, nil
}

// seed stores a tour owned by admin under destination destID.
func (m *mockToursRepo) seed(admin *domain.Actor, destID int64, name string, maxPeople int, price domain.Money) *domain.Tour {
	id := m.nextID
	m.nextID++
	t := &domain.Tour{
		ID:            id,
		Name:          name,
		DestinationID: destID,
		MaxPeople:     maxPeople,
		Price:         price,
		Date:          "2026-11-01",
		Images:        []string{"tours/" + name + ".jpg"},
		CreatedBy:     admin.ID,
	}
	m.tours[id] = t
	return t
}

type mockBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
	reviewed map[int64]bool
	tours    *mockToursRepo
	creates  int
	failNext error
}

func newMockBookingRepo(tours *mockToursRepo) *mockBookingRepo {
	return &mockBookingRepo{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
		reviewed: make(map[int64]bool),
		tours:    tours,
	}
}

func (m *mockBookingRepo) view(b *domain.Booking) domain.Booking {
	out := *b
	out.HasReview = m.reviewed[b.ID]
	if t, ok := m.tours.tours[b.TourID]; ok {
		j := m.tours.joined(t)
		out.Tour = &domain.TourSnapshot{
			ID:              t.ID,
			Name:            t.Name,
			Date:            t.Date,
			Price:           t.Price,
			DestinationName: j.DestinationName(),
			Image:           t.CoverImage(),
		}
	}
	return out
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, err
	}
	m.creates++
	cp := *b
	cp.ID = m.nextID
	m.nextID++
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockBookingRepo) FindByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	out := *b
	out.HasReview = m.reviewed[id]
	return &out, nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.sorted() {
		if b.UserID == userID {
			out = append(out, m.view(b))
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ListByTours(_ context.Context, tourIDs []int64) ([]domain.Booking, error) {
	want := make(map[int64]bool, len(tourIDs))
	for _, id := range tourIDs {
		want[id] = true
	}
	var out []domain.Booking
	for _, b := range m.sorted() {
		if want[b.TourID] {
			out = append(out, m.view(b))
		}
	}
	return out, nil
}

func (m *mockBookingRepo) Complete(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok || !domain.IsInitial(b.Status) {
		return nil, nil
	}
	b.Status = domain.BookingCompleted
	out := *b
	return &out, nil
}

func (m *mockBookingRepo) CompleteAllForTour(_ context.Context, tourID int64) ([]int64, error) {
	var ids []int64
	for _, b := range m.sorted() {
		if b.TourID == tourID && domain.IsInitial(b.Status) {
			b.Status = domain.BookingCompleted
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (m *mockBookingRepo) sorted() []*domain.Booking {
	out := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// seed stores a booking directly, bypassing validation.
func (m *mockBookingRepo) seed(tourID int64, user *domain.Actor, people int, status domain.BookingStatus) *domain.Booking {
	b := &domain.Booking{
		ID:             m.nextID,
		TourID:         tourID,
		UserID:         user.ID,
		LeaderName:     user.Name,
		Email:          user.Email,
		Phone:          "9800000000",
		NumberOfPeople: people,
		Status:         status,
	}
	m.nextID++
	m.bookings[b.ID] = b
	return b
}

// mockIdempotencyRepo stores 0 for a key that is reserved but not completed.
type mockIdempotencyRepo struct {
	keys map[string]int64
	held bool // every key is reserved by another request
}

func newMockIdempotencyRepo() *mockIdempotencyRepo {
	return &mockIdempotencyRepo{keys: make(map[string]int64)}
}

func (m *mockIdempotencyRepo) Reserve(_ context.Context, key string) (int64, bool, error) {
	if m.held {
		return 0, false, nil
	}
	if id, ok := m.keys[key]; ok {
		return id, false, nil
	}
	m.keys[key] = 0
	return 0, true, nil
}

func (m *mockIdempotencyRepo) Complete(_ context.Context, key string, bookingID int64) error {
	m.keys[key] = bookingID
	return nil
}

func (m *mockIdempotencyRepo) Release(_ context.Context, key string) error {
	if m.keys[key] == 0 {
		delete(m.keys, key)
	}
	return nil
}

type mockReviewsRepo struct {
	nextID   int64
	reviews  []domain.Review
	bookings *mockBookingRepo
}

func newMockReviewsRepo(bookings *mockBookingRepo) *mockReviewsRepo {
	return &mockReviewsRepo{nextID: 1, bookings: bookings}
}

func (m *mockReviewsRepo) Create(_ context.Context, r *domain.Review) (*domain.Review, error) {
	if m.bookings.reviewed[r.BookingID] {
		return nil, domain.ErrReviewExists
	}
	cp := *r
	cp.ID = m.nextID
	m.nextID++
	cp.CreatedAt = time.Now()
	m.reviews = append(m.reviews, cp)
	m.bookings.reviewed[r.BookingID] = true
	out := cp
	return &out, nil
}

func (m *mockReviewsRepo) ListForTourCreator(_ context.Context, createdBy uuid.UUID) ([]domain.Review, error) {
	var out []domain.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		t, ok := m.bookings.tours.tours[r.TourID]
		if !ok || t.CreatedBy != createdBy {
			continue
		}
		r.TourName = t.Name
		out = append(out, r)
	}
	return out, nil
}

var (
	_ postgres.ProfilesRepo     = (*mockProfilesRepo)(nil)
	_ postgres.VerifyRepo       = (*mockVerifyRepo)(nil)
	_ postgres.DestinationsRepo = (*mockDestinationsRepo)(nil)
	_ postgres.ToursRepo        = (*mockToursRepo)(nil)
	_ postgres.BookingRepo      = (*mockBookingRepo)(nil)
	_ postgres.IdempotencyRepo  = (*mockIdempotencyRepo)(nil)
	_ postgres.ReviewsRepo      = (*mockReviewsRepo)(nil)
)
