package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/logger"
)

type ReplyService interface {
	Submit(ctx context.Context, data domain.PostCreationData) (domain.Post, error)
	Get(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error)
}

// Reply admits new posts into existing threads. Content rules are enforced
// here for every caller; the lock check and the write happen atomically in
// storage.
type Reply struct {
	storage   ReplyStorage
	validator ReplyValidator
	retrier   *Retrier
	policy    domain.BumpPolicy
	log       *slog.Logger
}

type ReplyStorage interface {
	CreatePost(ctx context.Context, data domain.PostCreationData, policy domain.BumpPolicy) (domain.Post, domain.Thread, error)
	GetPost(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error)
}

type ReplyValidator interface {
	Post(data *domain.PostCreationData) error
	BoardCode(code domain.BoardCode) error
	ThreadNumber(n domain.ThreadNumber) error
}

func NewReply(storage ReplyStorage, validator ReplyValidator, retrier *Retrier, cfg *config.Config) ReplyService {
	return &Reply{
		storage:   storage,
		validator: validator,
		retrier:   retrier,
		policy:    domain.BumpPolicy{BumpLimit: cfg.Public.BumpLimit, AllowSage: cfg.Public.AllowSage},
		log:       logger.Component("reply"),
	}
}

func (s *Reply) Submit(ctx context.Context, data domain.PostCreationData) (domain.Post, error) {
	post, err := s.submit(ctx, data)
	if err != nil {
		kind := internal_errors.KindOf(err)
		admissionRejections.WithLabelValues(string(kind)).Inc()
		s.log.Debug("reply rejected", "board", data.Board, "thread", data.ThreadNumber, "kind", kind)
		return domain.Post{}, err
	}
	postsCreated.WithLabelValues("reply").Inc()
	return post, nil
}

func (s *Reply) submit(ctx context.Context, data domain.PostCreationData) (domain.Post, error) {
	if err := s.validator.BoardCode(data.Board); err != nil {
		return domain.Post{}, err
	}
	if err := s.validator.ThreadNumber(data.ThreadNumber); err != nil {
		return domain.Post{}, err
	}
	if err := s.validator.Post(&data); err != nil {
		return domain.Post{}, err
	}
	// a retry after an ambiguous commit must find the first attempt's post
	if data.Token == uuid.Nil {
		data.Token = uuid.New()
	}

	var (
		post   domain.Post
		thread domain.Thread
	)
	err := s.retrier.Do(ctx, "create post", func() error {
		var err error
		post, thread, err = s.storage.CreatePost(ctx, data, s.policy)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}
	s.log.Debug("reply accepted", "post", post.String(), "thread", thread.String())
	return post, nil
}

func (s *Reply) Get(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error) {
	if err := s.validator.BoardCode(board); err != nil {
		return domain.Post{}, err
	}
	if err := s.validator.ThreadNumber(thread); err != nil {
		return domain.Post{}, err
	}
	if number < domain.FirstPostNumber {
		return domain.Post{}, internal_errors.Validation("Post number must be positive")
	}
	var post domain.Post
	err := s.retrier.Do(ctx, "get post", func() error {
		var err error
		post, err = s.storage.GetPost(ctx, board, thread, number)
		return err
	})
	return post, err
}
