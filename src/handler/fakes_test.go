package handler

import (
	"bytes"
	"context"
	"sync"
	"time"

	"ganak-service/src/config"
	"ganak-service/src/database"
	"ganak-service/src/logger"
	"ganak-service/src/models"
	"ganak-service/src/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestHandler() (*Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &config.Config{
		ServiceName:    "ganak-test",
		JWTSecret:      "test-secret",
		JWTExpiration:  time.Hour,
		OTPTTL:         10 * time.Minute,
		OTPMaxAttempts: 3,
		Logger:         logger.NewLoggerWithWriter(logger.DEBUG, &syncWriter{buf: &buf}),
	}
	return &Handler{App: cfg}, &buf
}

type syncWriter struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *req.Email {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = *req.Email
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.City != nil {
		u.City = *req.City
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.Password = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeResets mirrors the store contract: Reserve and Consume are atomic.
// latency is spent before the store is touched to widen race windows.
type fakeResets struct {
	mu       sync.Mutex
	resets   map[string]models.PasswordReset
	latency  time.Duration
	reserved int
}

func newFakeResets() *fakeResets {
	return &fakeResets{resets: map[string]models.PasswordReset{}}
}

func (f *fakeResets) Save(_ context.Context, reset models.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[reset.Email] = reset
	return nil
}

func (f *fakeResets) Reserve(_ context.Context, email string, limit int, now time.Time) (*models.PasswordReset, error) {
	time.Sleep(f.latency)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resets[email]
	if !ok || !now.Before(r.ExpiresAt) {
		return nil, repository.ErrNotFound
	}
	if r.Attempts >= limit {
		return nil, repository.ErrAttemptsExhausted
	}
	r.Attempts++
	f.resets[email] = r
	f.reserved++
	return &r, nil
}

func (f *fakeResets) Consume(_ context.Context, email string, _ time.Time) (*models.PasswordReset, error) {
	time.Sleep(f.latency)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resets[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.resets, email)
	return &r, nil
}

func (f *fakeResets) pending(email string) (models.PasswordReset, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resets[email]
	return r, ok
}

func (f *fakeResets) reservations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reserved
}

type sentCode struct {
	to, code string
}

type fakeMailer struct {
	sent chan sentCode
}

func (m *fakeMailer) SendPasswordResetCode(toEmail, code string, _ time.Duration) error {
	m.sent <- sentCode{to: toEmail, code: code}
	return nil
}

type fakeChats struct {
	mu    sync.Mutex
	chats map[primitive.ObjectID]*models.Chat
}

func newFakeChats() *fakeChats {
	return &fakeChats{chats: map[primitive.ObjectID]*models.Chat{}}
}

func (f *fakeChats) Create(_ context.Context, chat *models.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat.ID = primitive.NewObjectID()
	cp := *chat
	f.chats[chat.ID] = &cp
	return nil
}

func (f *fakeChats) List(_ context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Chat{}
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChats) Get(_ context.Context, userID, chatID primitive.ObjectID) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChats) AppendMessage(_ context.Context, userID, chatID primitive.ObjectID, msg models.ChatMessage) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c.Messages = append(c.Messages, msg)
	cp := *c
	return &cp, nil
}

func (f *fakeChats) Delete(_ context.Context, userID, chatID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.chats, chatID)
	return nil
}

func (f *fakeChats) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.chats {
		if c.UserID == userID {
			delete(f.chats, id)
		}
	}
	return nil
}

type fakeClinics struct {
	last models.ClinicQuery
	err  error
}

func (f *fakeClinics) Search(_ context.Context, q models.ClinicQuery) ([]models.Clinic, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return []models.Clinic{{ID: primitive.NewObjectID(), Name: "City Care", City: "Pune"}}, nil
}

func (f *fakeClinics) Get(_ context.Context, _ primitive.ObjectID) (*models.Clinic, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, repository.ErrNotFound
}

var errDown = database.ErrUnavailable

type fakeReports struct {
	mu      sync.Mutex
	reports map[primitive.ObjectID]*models.Report
}

func newFakeReports() *fakeReports {
	return &fakeReports{reports: map[primitive.ObjectID]*models.Report{}}
}

func (f *fakeReports) Create(_ context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()
	cp := *report
	f.reports[report.ID] = &cp
	return nil
}

func (f *fakeReports) List(_ context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Report{}
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReports) Get(_ context.Context, userID, reportID primitive.ObjectID) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok || r.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReports) Delete(_ context.Context, userID, reportID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.reports, reportID)
	return nil
}
