// Package seed imports coupons and categories from gzip-compressed CSV files
// and bootstraps the admin account.
package seed

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"shopfront/internal/auth"
	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/service"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const progressEvery = 1000

// Files lists the seed files to import. Each entry is a local path or an
// s3://bucket/key URL.
type Files struct {
	Coupons    []string
	Categories []string
}

// Result counts the rows written by Import.
type Result struct {
	Coupons    int
	Categories int
}

// Seeder writes seed data through the repositories.
type Seeder struct {
	source     Source
	coupons    repository.CouponRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates a seeder reading files from source.
func New(
	source Source,
	coupons repository.CouponRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		source:     source,
		coupons:    coupons,
		categories: categories,
		users:      users,
		logger:     logger.With().Str("component", "seed").Logger(),
		now:        time.Now,
	}
}

// Import loads every file concurrently. The first failure cancels the rest.
func (s *Seeder) Import(ctx context.Context, files Files) (Result, error) {
	couponCounts := make([]int, len(files.Coupons))
	categoryCounts := make([]int, len(files.Categories))

	g, ctx := errgroup.WithContext(ctx)
	for i, location := range files.Coupons {
		g.Go(func() error {
			n, err := s.ImportCoupons(ctx, location)
			couponCounts[i] = n
			return err
		})
	}
	for i, location := range files.Categories {
		g.Go(func() error {
			n, err := s.ImportCategories(ctx, location)
			categoryCounts[i] = n
			return err
		})
	}

	err := g.Wait()
	var res Result
	for _, n := range couponCounts {
		res.Coupons += n
	}
	for _, n := range categoryCounts {
		res.Categories += n
	}
	return res, err
}

// ImportCoupons upserts the rows of a code,discount,minimum file. Codes are
// upper-cased and held to the same rules as the coupon API.
func (s *Seeder) ImportCoupons(ctx context.Context, location string) (int, error) {
	s.logger.Info().Str("file", location).Msg("importing coupons")

	count := 0
	err := s.readRows(ctx, location, "code", 3, func(line int, rec []string) error {
		discount, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return errors.Errorf("%s:%d: discount %q is not a number", location, line, rec[1])
		}
		minimum, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return errors.Errorf("%s:%d: minimum %q is not a number", location, line, rec[2])
		}

		req := &model.CouponRequest{Code: rec[0], DiscountAmount: discount, MinimumAmount: minimum}
		if err := service.ValidateCoupon(req); err != nil {
			return errors.Wrapf(err, "%s:%d", location, line)
		}

		coupon := &model.Coupon{
			ID:             uuid.New(),
			Code:           req.Code,
			DiscountAmount: req.DiscountAmount,
			MinimumAmount:  req.MinimumAmount,
			CreatedAt:      s.now().UTC(),
		}
		if err := s.coupons.Upsert(ctx, coupon); err != nil {
			return errors.Wrapf(err, "%s:%d: upsert coupon %s", location, line, coupon.Code)
		}

		count++
		if count%progressEvery == 0 {
			s.logger.Info().Str("file", location).Int("written", count).Msg("coupon import progress")
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	s.logger.Info().Str("file", location).Int("coupons_loaded", count).Msg("coupon file imported")
	return count, nil
}

// ImportCategories upserts the rows of a name,description file, matching
// existing categories by name.
func (s *Seeder) ImportCategories(ctx context.Context, location string) (int, error) {
	s.logger.Info().Str("file", location).Msg("importing categories")

	count := 0
	err := s.readRows(ctx, location, "name", 1, func(line int, rec []string) error {
		category := &model.Category{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(rec[0]),
			CreatedAt: s.now().UTC(),
		}
		if len(rec) > 1 {
			category.Description = strings.TrimSpace(rec[1])
		}

		switch {
		case category.Name == "":
			return errors.Errorf("%s:%d: name is required", location, line)
		case utf8.RuneCountInString(category.Name) > 100:
			return errors.Errorf("%s:%d: name must be at most 100 characters", location, line)
		case utf8.RuneCountInString(category.Description) > 500:
			return errors.Errorf("%s:%d: description must be at most 500 characters", location, line)
		}

		if err := s.categories.UpsertByName(ctx, category); err != nil {
			return errors.Wrapf(err, "%s:%d: upsert category %s", location, line, category.Name)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	s.logger.Info().Str("file", location).Int("categories_loaded", count).Msg("category file imported")
	return count, nil
}

// readRows streams a gzip CSV file and calls fn for each record with at
// least minFields fields. A first row whose first field equals header is
// skipped, as are lines starting with #.
func (s *Seeder) readRows(ctx context.Context, location, header string, minFields int, fn func(line int, rec []string) error) error {
	rc, err := s.source.Open(ctx, location)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	gz, err := pgzip.NewReader(rc)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", location)
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	first := true
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Str("file", location).Msg("seed import cancelled")
			return err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read %s", location)
		}
		line, _ := r.FieldPos(0)

		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(rec[0]), header) {
				continue
			}
		}
		if len(rec) < minFields {
			return errors.Errorf("%s:%d: expected %d fields, got %d", location, line, minFields, len(rec))
		}

		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

// EnsureAdmin creates a confirmed Admin account for email, or grants Admin
// and confirms the email of an existing one. The password of an existing
// account is left unchanged.
func (s *Seeder) EnsureAdmin(ctx context.Context, email, password, userName string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("admin email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "look up admin")
	}

	if user != nil {
		if err := s.users.AddRole(ctx, user.ID, model.RoleAdmin); err != nil {
			return nil, errors.Wrap(err, "grant admin role")
		}
		if !user.EmailConfirmed {
			if err := s.users.ConfirmEmail(ctx, user.ID); err != nil {
				return nil, errors.Wrap(err, "confirm admin email")
			}
			user.EmailConfirmed = true
		}
		s.logger.Info().Str("user_id", user.ID.String()).Msg("existing account promoted to admin")
		return user, nil
	}

	if len(password) < 6 {
		return nil, errors.New("admin password must be at least 6 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if userName == "" {
		userName, _, _ = strings.Cut(email, "@")
	}

	user = &model.User{
		ID:             uuid.New(),
		Email:          email,
		UserName:       userName,
		PasswordHash:   hash,
		EmailConfirmed: true,
		SecurityStamp:  uuid.New(),
		Roles:          []string{model.RoleAdmin, model.RoleCustomer},
		CreatedAt:      s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "create admin")
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("admin account created")
	return user, nil
}
