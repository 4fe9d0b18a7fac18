// Package memory keeps posts and comments in process memory. It backs the "memory" storage
// driver used for local runs and service tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	seq      int64
	posts    map[uuid.UUID]*model.Post
	comments map[uuid.UUID]*model.Comment
	now      func() time.Time
}

func New() *Store {
	return &Store{
		posts:    make(map[uuid.UUID]*model.Post),
		comments: make(map[uuid.UUID]*model.Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := s.now()
	post.Seq = s.seq
	post.CreatedAt = now
	post.UpdatedAt = now
	post.IsActive = true
	post.Likes = []uuid.UUID{}
	post.Comments = []uuid.UUID{}
	post.Tags = slices.Clone(post.Tags)
	if post.Tags == nil {
		post.Tags = []string{}
	}

	s.posts[post.ID] = &post
	return clonePost(&post), nil
}

func (s *Store) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok || !post.IsActive {
		return nil, model.ErrNotFound
	}
	return clonePost(post), nil
}

func (s *Store) ToggleLike(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || !post.IsActive {
		return nil, model.ErrNotFound
	}

	if i := slices.Index(post.Likes, userID); i >= 0 {
		post.Likes = slices.Delete(post.Likes, i, i+1)
	} else {
		post.Likes = append(post.Likes, userID)
	}
	post.UpdatedAt = s.now()

	return clonePost(post), nil
}

func (s *Store) Deactivate(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || !post.IsActive || post.AuthorID != authorID {
		return model.ErrNotFound
	}

	post.IsActive = false
	post.UpdatedAt = s.now()
	return nil
}

func (s *Store) Find(ctx context.Context, filter model.FeedFilter, limit int, offset int) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq > matched[j].Seq
	})

	posts := []*model.Post{}
	if offset < 0 || offset >= len(matched) || limit < 1 {
		return posts, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}
	for _, post := range matched[offset:end] {
		posts = append(posts, clonePost(post))
	}
	return posts, nil
}

func (s *Store) Count(ctx context.Context, filter model.FeedFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.match(filter))), nil
}

func (s *Store) CreateAndAttach(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[comment.PostID]
	if !ok || !post.IsActive {
		return nil, model.ErrNotFound
	}

	s.seq++
	now := s.now()
	comment.Seq = s.seq
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.IsActive = true

	s.comments[comment.ID] = &comment
	post.Comments = append(post.Comments, comment.ID)
	post.UpdatedAt = now

	created := comment
	return &created, nil
}

func (s *Store) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return []*model.Comment{}, nil
	}

	comments := make([]*model.Comment, 0, len(post.Comments))
	for _, id := range post.Comments {
		comment, ok := s.comments[id]
		if !ok || !comment.IsActive {
			continue
		}
		c := *comment
		comments = append(comments, &c)
	}
	return comments, nil
}

func (s *Store) match(filter model.FeedFilter) []*model.Post {
	matched := []*model.Post{}
	for _, post := range s.posts {
		if !post.IsActive {
			continue
		}
		if filter.Type != "" && post.Type != filter.Type {
			continue
		}
		if filter.Tag != "" && !slices.Contains(post.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, post)
	}
	return matched
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Likes = slices.Clone(p.Likes)
	c.Comments = slices.Clone(p.Comments)
	if p.MediaURL != nil {
		url := *p.MediaURL
		c.MediaURL = &url
	}
	return &c
}
