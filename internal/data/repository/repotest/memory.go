// Package repotest provides in-memory repositories for service and HTTP tests.
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"

	"github.com/google/uuid"
)

var errMissing = errors.New("record not found")

// Store backs every in-memory repository with one lock, like a single database.
type Store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	deletions     []entity.DeletionRecord
	admins        map[uuid.UUID]*entity.Admin
	contributions map[uuid.UUID]*entity.Contribution
	otps          map[uuid.UUID]*entity.OTP

	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*entity.User),
		admins:        make(map[uuid.UUID]*entity.Admin),
		contributions: make(map[uuid.UUID]*entity.Contribution),
		otps:          make(map[uuid.UUID]*entity.OTP),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:         &UserRepo{s},
		Admin:        &AdminRepo{s},
		Contribution: &ContributionRepo{s},
		OTP:          &OTPRepo{s},
	}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.PrevPhones = append([]string(nil), u.PrevPhones...)
	return &c
}

func copyAdmin(a *entity.Admin) *entity.Admin {
	c := *a
	c.Permissions = append([]entity.Permission(nil), a.Permissions...)
	return &c
}

func copyContribution(c *entity.Contribution) *entity.Contribution {
	out := *c
	return &out
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return repository.ErrDuplicateKey
		}
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	if u, ok := r.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	for _, u := range r.s.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email && u.IsActive })
}

func (r *UserRepo) FindByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.EmailVerificationToken != nil && *u.EmailVerificationToken == tokenHash &&
			u.EmailVerificationTokenExpires != nil && u.EmailVerificationTokenExpires.After(now)
	})
}

func (r *UserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	all := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.s.users)), nil
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	if _, ok := r.s.users[user.ID]; !ok {
		return errMissing
	}
	for id, u := range r.s.users {
		if id != user.ID && (u.Email == user.Email || u.Phone == user.Phone) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id uuid.UUID, entry *entity.DeletionRecord) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}

	u, ok := r.s.users[id]
	if !ok || !u.IsActive {
		return false, nil
	}
	u.IsActive = false
	u.UpdatedAt = entry.DeletedAt

	entry.ID = int64(len(r.s.deletions) + 1)
	entry.UserID = id
	r.s.deletions = append(r.s.deletions, *entry)
	return true, nil
}

func (r *UserRepo) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}

	u, ok := r.s.users[id]
	if !ok || u.IsActive {
		return false, nil
	}
	u.IsActive = true
	return true, nil
}

func (r *UserRepo) FindDeletions(ctx context.Context, userID uuid.UUID) ([]entity.DeletionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	var out []entity.DeletionRecord
	for _, d := range r.s.deletions {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

type AdminRepo struct{ s *Store }

func (r *AdminRepo) Create(ctx context.Context, admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	for _, a := range r.s.admins {
		if a.Username == admin.Username || a.Email == admin.Email || a.Phone == admin.Phone {
			return repository.ErrDuplicateKey
		}
	}
	r.s.admins[admin.ID] = copyAdmin(admin)
	return nil
}

func (r *AdminRepo) find(match func(*entity.Admin) bool) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	for _, a := range r.s.admins {
		if match(a) {
			return copyAdmin(a), nil
		}
	}
	return nil, nil
}

func (r *AdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.find(func(a *entity.Admin) bool { return a.ID == id })
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	return r.find(func(a *entity.Admin) bool { return a.Username == username })
}

func (r *AdminRepo) FindActiveByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.find(func(a *entity.Admin) bool {
		return a.Email == email && a.Status == entity.AdminStatusActive
	})
}

func (r *AdminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	if a, ok := r.s.admins[id]; ok {
		a.LastLogin = &at
	}
	return nil
}

type ContributionRepo struct{ s *Store }

func (r *ContributionRepo) Create(ctx context.Context, c *entity.Contribution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	for _, existing := range r.s.contributions {
		if existing.UserID == c.UserID && existing.Key == c.Key {
			return repository.ErrDuplicateKey
		}
	}
	r.s.contributions[c.ID] = copyContribution(c)
	return nil
}

func (r *ContributionRepo) find(match func(*entity.Contribution) bool) (*entity.Contribution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	for _, c := range r.s.contributions {
		if match(c) {
			return copyContribution(c), nil
		}
	}
	return nil, nil
}

func (r *ContributionRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contribution, error) {
	return r.find(func(c *entity.Contribution) bool { return c.UserID == userID && c.ID == id })
}

func (r *ContributionRepo) FindByKey(ctx context.Context, userID uuid.UUID, key string) (*entity.Contribution, error) {
	return r.find(func(c *entity.Contribution) bool { return c.UserID == userID && c.Key == key })
}

func (r *ContributionRepo) sorted(match func(*entity.Contribution) bool) []*entity.Contribution {
	var out []*entity.Contribution
	for _, c := range r.s.contributions {
		if match(c) {
			out = append(out, copyContribution(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UploadDate.Before(out[j].UploadDate)
	})
	return out
}

func (r *ContributionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contribution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	return r.sorted(func(c *entity.Contribution) bool { return c.UserID == userID }), nil
}

func (r *ContributionRepo) Update(ctx context.Context, c *entity.Contribution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	existing, ok := r.s.contributions[c.ID]
	if !ok || existing.UserID != c.UserID {
		return errMissing
	}
	for id, other := range r.s.contributions {
		if id != c.ID && other.UserID == c.UserID && other.Key == c.Key {
			return repository.ErrDuplicateKey
		}
	}
	r.s.contributions[c.ID] = copyContribution(c)
	return nil
}

func (r *ContributionRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}

	c, ok := r.s.contributions[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.s.contributions, id)
	return true, nil
}

func (r *ContributionRepo) FindAllWithContributor(ctx context.Context) ([]*entity.ContributionWithContributor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	var out []*entity.ContributionWithContributor
	for _, c := range r.sorted(func(*entity.Contribution) bool { return true }) {
		name := ""
		if u, ok := r.s.users[c.UserID]; ok {
			name = u.FullName()
		}
		out = append(out, &entity.ContributionWithContributor{Contribution: *c, UploadedBy: name})
	}
	return out, nil
}

type OTPRepo struct{ s *Store }

func (r *OTPRepo) Create(ctx context.Context, otp *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	for _, o := range r.s.otps {
		if o.UserID == otp.UserID && o.OTPType == otp.OTPType {
			o.IsUsed = true
		}
	}
	c := *otp
	c.IsUsed = false
	r.s.otps[otp.ID] = &c
	return nil
}

func (r *OTPRepo) Consume(ctx context.Context, userID uuid.UUID, phone, codeHash string, otpType entity.OTPType, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}

	for _, o := range r.s.otps {
		if o.UserID == userID && o.Phone == phone && o.CodeHash == codeHash &&
			o.OTPType == otpType && o.Redeemable(now) {
			o.IsUsed = true
			return true, nil
		}
	}
	return false, nil
}
