package service

import (
	"context"
	"strings"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/store"
)

// KeywordService stores the keyword research results that jobs start from
type KeywordService struct {
	store *store.Store
}

func NewKeywordService(s *store.Store) *KeywordService {
	return &KeywordService{store: s}
}

func (s *KeywordService) List(ctx context.Context) ([]model.Keyword, error) {
	keywords, err := s.store.Keywords.List(ctx)
	if err != nil {
		return nil, PersistenceError("failed to list keywords", err)
	}
	return keywords, nil
}

// Save stores every input as a new keyword
func (s *KeywordService) Save(ctx context.Context, inputs []model.KeywordInput) ([]model.Keyword, error) {
	if len(inputs) == 0 {
		return nil, ValidationError("Invalid keywords list")
	}

	keywords := make([]model.Keyword, 0, len(inputs))
	for _, in := range inputs {
		term := strings.TrimSpace(in.Term)
		if term == "" {
			return nil, ValidationError("Keyword term is required")
		}
		seed := strings.TrimSpace(in.SeedKeyword)
		if seed == "" {
			seed = term
		}
		keywords = append(keywords, model.Keyword{
			Term:        term,
			SeedKeyword: seed,
			Intent:      in.Intent,
			Status:      model.KeywordStatusNew,
		})
	}

	if err := s.store.Keywords.CreateBatch(ctx, keywords); err != nil {
		return nil, PersistenceError("failed to save keywords", err)
	}
	return keywords, nil
}

func (s *KeywordService) Delete(ctx context.Context, id uint) error {
	ok, err := s.store.Keywords.Delete(ctx, id)
	if err != nil {
		return PersistenceError("failed to delete keyword", err)
	}
	if !ok {
		return NotFoundError("Keyword not found")
	}
	return nil
}
