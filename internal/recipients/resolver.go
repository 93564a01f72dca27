// Package recipients computes who is notified about newly published content.
package recipients

import (
	"context"
	"fmt"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
)

// UserDirectory reads host user records.
type UserDirectory interface {
	ListSystemEmails(ctx context.Context) ([]string, error)
	ListActiveByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

// GroupResolver returns the members of a user group.
type GroupResolver interface {
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// Resolver merges the enabled recipient sources into one deduplicated set.
type Resolver struct {
	users  UserDirectory
	groups GroupResolver
	log    *logger.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(users UserDirectory, groups GroupResolver, log *logger.Logger) *Resolver {
	return &Resolver{
		users:  users,
		groups: groups,
		log:    log,
	}
}

// Resolve returns the recipients selected by opts. Group members come first so
// that an address reachable both as a user and as a bare address keeps its user.
func (r *Resolver) Resolve(ctx context.Context, opts config.Options) (*models.RecipientSet, error) {
	set := models.NewRecipientSet()

	if opts.MailtoUsergroup {
		if err := r.addGroup(ctx, set, opts); err != nil {
			return nil, err
		}
	}

	if opts.MailtoCustom {
		for _, addr := range config.SplitAddresses(opts.CustomEmails) {
			set.Add(models.RecipientRef{Email: addr})
		}
	}

	if opts.MailtoAdmins {
		emails, err := r.users.ListSystemEmails(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve admin recipients: %w", err)
		}
		for _, email := range emails {
			set.Add(models.RecipientRef{Email: email})
		}
	}

	r.log.Debug().
		Int("recipients", set.Len()).
		Bool("admins", opts.MailtoAdmins).
		Bool("custom", opts.MailtoCustom).
		Bool("usergroup", opts.MailtoUsergroup).
		Msg("resolved recipients")

	return set, nil
}

func (r *Resolver) addGroup(ctx context.Context, set *models.RecipientSet, opts config.Options) error {
	// no group configured disables the source
	if !opts.HasGroup() {
		return nil
	}

	ids, err := r.groups.MemberIDs(ctx, opts.UserGroup)
	if err != nil {
		return fmt.Errorf("resolve group members: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	users, err := r.users.ListActiveByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve group users: %w", err)
	}

	for _, u := range users {
		if u.Blocked {
			continue
		}
		set.Add(models.RecipientRef{
			Email:    u.Email,
			UserID:   u.ID,
			Username: u.Username,
			Name:     u.Name,
		})
	}
	return nil
}
