// Package auth holds the team roster and login sessions.
package auth

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/errors"
)

// Member is one team member allowed to submit products.
type Member struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	PasswordHash string `yaml:"password_hash,omitempty" json:"-"`
}

type rosterFile struct {
	Members []Member `yaml:"members"`
}

// DefaultMembers is the roster used when no roster file exists. Its members
// have no password and can submit but not log in.
func DefaultMembers() []Member {
	return []Member{
		{ID: "mehdi", Name: "Mehdi"},
		{ID: "jebbar", Name: "Jebbar"},
		{ID: "abde", Name: "Abde"},
		{ID: "walid", Name: "Walid"},
	}
}

// Roster is the set of known members. It is safe for concurrent use and can
// be replaced wholesale by Reload.
type Roster struct {
	mu      sync.RWMutex
	path    string
	members map[string]Member
}

func NewRoster(members []Member) *Roster {
	r := &Roster{}
	r.set(members)
	return r
}

// LoadRoster reads the roster file at path. A missing file yields
// DefaultMembers.
func LoadRoster(path string) (*Roster, error) {
	members, err := readRoster(path)
	if err != nil {
		return nil, err
	}
	r := NewRoster(members)
	r.path = path
	return r, nil
}

func readRoster(path string) ([]Member, error) {
	file, err := config.LoadYAMLOrDefault(path, func() *rosterFile {
		return &rosterFile{Members: DefaultMembers()}
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.SystemError, errors.GetErrorMessage(errors.ErrFileRead), errors.ErrFileRead)
	}
	return file.Members, nil
}

// Reload re-reads the roster file. On error the current members are kept.
func (r *Roster) Reload() error {
	if r.path == "" {
		return nil
	}
	members, err := readRoster(r.path)
	if err != nil {
		return err
	}
	r.set(members)
	return nil
}

func (r *Roster) Path() string {
	return r.path
}

func (r *Roster) set(members []Member) {
	index := make(map[string]Member, len(members))
	for _, m := range members {
		id := normalizeID(m.ID)
		if id == "" {
			continue
		}
		m.ID = id
		if m.Name == "" {
			m.Name = id
		}
		index[id] = m
	}
	r.mu.Lock()
	r.members = index
	r.mu.Unlock()
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// IsMember reports whether token names a roster member.
func (r *Roster) IsMember(token string) bool {
	_, ok := r.Lookup(token)
	return ok
}

func (r *Roster) Lookup(id string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[normalizeID(id)]
	return m, ok
}

// Members returns the roster sorted by id.
func (r *Roster) Members() []Member {
	r.mu.RLock()
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Authenticate checks a member's password.
func (r *Roster) Authenticate(id, password string) (Member, error) {
	m, ok := r.Lookup(id)
	if !ok {
		return Member{}, errors.FromCode(errors.AuthError, errors.ErrUnknownMember, id)
	}
	if m.PasswordHash == "" {
		return Member{}, errors.FromCode(errors.AuthError, errors.ErrPasswordNotSet, m.ID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		return Member{}, errors.Wrap(err, errors.AuthError, errors.GetErrorMessage(errors.ErrInvalidPassword), errors.ErrInvalidPassword)
	}
	return m, nil
}

// HashPassword returns the bcrypt hash stored in roster files.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, errors.SystemError, "Failed to hash password", errors.ErrInvalidPassword)
	}
	return string(hash), nil
}
