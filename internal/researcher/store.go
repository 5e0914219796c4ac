// Copyright (c) 2026 ScholarLink. All rights reserved.

package researcher

import "context"

type Repository interface {
	ListResearchers(context context.Context, search string, limit, offset int) ([]*Researcher, int, error)
	GetByOrcid(context context.Context, orcidID string) (*Researcher, error)
	CreateResearcher(context context.Context, r *Researcher) error
	UpdateResearcher(context context.Context, r *Researcher) error
	DeleteResearcher(context context.Context, id string) error
}
