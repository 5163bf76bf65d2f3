package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver

// Resource is a gated module or section together with its paypal condition
type Resource struct {
	Context   *schema.Context
	SectionID int64
	Condition *PayPalCondition
	// Negated is true when the condition sits under an odd number of NOT operators
	Negated bool
}

// Resolver finds the paypal condition guarding a context
type Resolver interface {
	// Resolve loads the context and the first paypal condition of its availability tree.
	// Module contexts read the module's tree, any other context reads the tree of sectionID.
	Resolve(ctx context.Context, contextID, sectionID int64) (*Resource, error)
}

type resolver struct {
	store store.Store
}

// NewResolver creates a resolver backed by the host model in the store
func NewResolver(st store.Store) Resolver {
	return &resolver{store: st}
}

func (r *resolver) Resolve(ctx context.Context, contextID, sectionID int64) (*Resource, error) {
	c, err := r.store.GetContextByID(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to load context: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrContextNotFound, contextID)
	}

	var raw []byte
	if c.ContextLevel == domain.ContextLevelModule {
		cm, err := r.store.GetCourseModuleByID(ctx, c.InstanceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load course module: %w", err)
		}
		if cm != nil {
			raw = cm.Availability
		}
	} else {
		cs, err := r.store.GetCourseSectionByID(ctx, sectionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load course section: %w", err)
		}
		if cs != nil {
			raw = cs.Availability
		}
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: context %d has no availability", domain.ErrConditionNotFound, contextID)
	}

	tree, err := ParseTree(raw)
	if err != nil {
		return nil, errors.Join(domain.ErrConditionNotFound, err)
	}

	match, ok := tree.FindFirst(domain.CONDITION_TYPE_PAYPAL)
	if !ok {
		return nil, fmt.Errorf("%w: context %d", domain.ErrConditionNotFound, contextID)
	}

	cond, err := ParsePayPalCondition(match.Condition)
	if err != nil {
		return nil, err
	}
	if err := cond.Validate(); err != nil {
		return nil, fmt.Errorf("context %d: %w", contextID, err)
	}

	if c.ContextLevel == domain.ContextLevelModule {
		sectionID = domain.MODULE_LEVEL_SECTION_ID
	}

	return &Resource{
		Context:   c,
		SectionID: sectionID,
		Condition: cond,
		Negated:   match.Negated,
	}, nil
}
