package repository

import (
	_ "embed"
	"fmt"
	"sync"

	"mx70/internal/auth"
	"mx70/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the initial content of a Store.
type Seed struct {
	Users       []SeedUser         `yaml:"users"`
	Gigs        []model.Gig        `yaml:"gigs"`
	Submissions []model.Submission `yaml:"submissions"`
	Lessons     []model.Lesson     `yaml:"lessons"`
	Credits     []model.Credit     `yaml:"credits"`
}

// SeedUser is a fixture account with its clear-text password.
type SeedUser struct {
	model.User `yaml:",inline"`
	Password   string `yaml:"password"`
}

// ParseSeed decodes fixtures and hashes their passwords.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	for i := range seed.Users {
		u := &seed.Users[i]
		hash, err := auth.HashPasswordWithCost(u.Password, bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}
		u.PasswordHash = hash
	}
	return &seed, nil
}

var defaultSeed = sync.OnceValues(func() (*Seed, error) {
	return ParseSeed(seedYAML)
})

// DefaultSeed returns the embedded demo fixtures.
func DefaultSeed() (*Seed, error) {
	return defaultSeed()
}

// Store owns every table of the simulation. Each Store is independent, so
// tests can construct one per case and run in parallel.
type Store struct {
	seed *Seed

	users          *userRepo
	gigs           *gigRepo
	submissions    *submissionRepo
	lessons        *lessonRepo
	credits        *creditRepo
	certifications *certificationRepo
}

// NewStore creates a Store filled from seed. A nil seed yields empty tables.
func NewStore(seed *Seed) *Store {
	if seed == nil {
		seed = &Seed{}
	}
	s := &Store{
		seed:           seed,
		users:          &userRepo{},
		gigs:           &gigRepo{},
		submissions:    &submissionRepo{},
		lessons:        &lessonRepo{},
		credits:        &creditRepo{},
		certifications: &certificationRepo{},
	}
	s.Reset()
	return s
}

// NewDefaultStore creates a Store filled with the embedded fixtures.
func NewDefaultStore() (*Store, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return NewStore(seed), nil
}

// Reset discards all state and reloads the seed.
func (s *Store) Reset() {
	users := make([]model.User, len(s.seed.Users))
	for i, u := range s.seed.Users {
		users[i] = u.User
	}
	s.users.load(users)
	s.gigs.load(s.seed.Gigs)
	s.submissions.load(s.seed.Submissions)
	s.lessons.load(s.seed.Lessons)
	s.credits.load(s.seed.Credits)
	s.certifications.load(nil)
}

func (s *Store) Users() UserRepository                   { return s.users }
func (s *Store) Gigs() GigRepository                     { return s.gigs }
func (s *Store) Submissions() SubmissionRepository       { return s.submissions }
func (s *Store) Lessons() LessonRepository               { return s.lessons }
func (s *Store) Credits() CreditRepository               { return s.credits }
func (s *Store) Certifications() CertificationRepository { return s.certifications }

func maxID[T any](rows []T, id func(T) int64) int64 {
	var top int64
	for _, r := range rows {
		if v := id(r); v > top {
			top = v
		}
	}
	return top
}
