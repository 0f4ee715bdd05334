package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/dwiprasetyo/user-management-api/internal/domain/entity"
	"github.com/dwiprasetyo/user-management-api/internal/domain/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserService covers profile reads/updates and admin-style user CRUD. The
// Elasticsearch client is optional; when nil, indexing is skipped and search
// returns no hits.
type UserService struct {
	Repo         repository.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(repo repository.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{Repo: repo, Logger: logger, ES: es, ESUsersIndex: esUsersIndex}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.FindByID(ctx, id)
}

// UpdateInput carries optional field changes; empty strings mean "unchanged".
type UpdateInput struct {
	Email     string
	FirstName string
	LastName  string
}

// Update applies the given changes. An email change is re-checked against the
// unique constraint and yields repository.ErrDuplicateEmail on collision.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != "" {
		u.Email = strings.ToLower(in.Email)
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteUserDoc(ctx, id)
	return nil
}

// ListResult is a page of users plus pagination metadata.
type ListResult struct {
	Users      []*entity.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// List returns a page of users ordered newest first. Page and limit are
// clamped to sane bounds.
func (s *UserService) List(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResult{Users: users, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// IndexUser pushes the user document to Elasticsearch. Best effort: failures
// are logged and never surface to the caller.
func (s *UserService) IndexUser(ctx context.Context, u *entity.User) {
	s.indexUser(ctx, u)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *UserService) deleteUserDoc(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over email and names.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
