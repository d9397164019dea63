package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
)

// MemoryStore keeps users and content in process memory. It satisfies the
// same contracts as PostgresStore and MongoStore.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	contents map[primitive.ObjectID]models.Content
	order    []primitive.ObjectID
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		contents: make(map[primitive.ObjectID]models.Content),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, apperr.ErrDuplicate
		}
	}
	u := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  password,
		CreatedAt: s.now().UTC(),
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByShareToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrNotFound
	}
	return s.findUser(func(u models.User) bool { return u.ShareToken != nil && *u.ShareToken == token })
}

func (s *MemoryStore) UpdateUserShareToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.ShareToken = &token
	s.users[userID] = u
	return nil
}

func (s *MemoryStore) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryStore) CreateContent(_ context.Context, c *models.Content) (*models.Content, error) {
	if err := checkPersistable(c); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := *c
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = s.now().UTC()
	s.contents[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return &doc, nil
}

func (s *MemoryStore) FindContentByOwner(_ context.Context, ownerID string, types models.ContentType) ([]models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Content{}
	for _, id := range s.order {
		c, ok := s.contents[id]
		if !ok || c.UserID != ownerID {
			continue
		}
		if types != "" && c.Types != types {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) FindContentByID(_ context.Context, id string) (*models.Content, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contents[oid]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) DeleteContentByID(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contents[oid]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.contents, oid)
	for i, existing := range s.order {
		if existing == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
