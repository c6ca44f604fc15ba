package usecase

import (
	"context"
	"fmt"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	urlutil "github.com/tabzoom/zoomd/internal/domain/url"
	"github.com/tabzoom/zoomd/internal/logging"
)

// ExclusionStatus describes how (and whether) a hostname is excluded.
type ExclusionStatus struct {
	Hostname       string `json:"hostname"`
	IsExcluded     bool   `json:"isExcluded"`
	IsExact        bool   `json:"isExact"`
	MatchedPattern string `json:"matchedPattern,omitempty"`
	RootDomain     string `json:"rootDomain"`
}

// ManageExclusionsUseCase maintains the exclusion rule set. Changes take
// effect for future tab loads and toggles; zoom already applied to open tabs
// of an excluded site is not reset.
type ManageExclusionsUseCase struct {
	exclRepo repository.ExclusionRepository
}

// NewManageExclusionsUseCase creates a new exclusion management use case.
func NewManageExclusionsUseCase(exclRepo repository.ExclusionRepository) *ManageExclusionsUseCase {
	return &ManageExclusionsUseCase{exclRepo: exclRepo}
}

// Add excludes a hostname. With asPattern, the stored rule is a wildcard
// over the hostname's root domain ("*.<domain>"), covering the domain and
// all subdomains. Idempotent.
func (uc *ManageExclusionsUseCase) Add(ctx context.Context, hostname string, asPattern bool) (entity.ExclusionSet, error) {
	log := logging.FromContext(ctx)
	if hostname == "" {
		return entity.ExclusionSet{}, fmt.Errorf("hostname cannot be empty")
	}

	value := hostname
	isPattern := false
	if asPattern {
		root, ok := urlutil.RootDomain(hostname)
		if !ok {
			return entity.ExclusionSet{}, fmt.Errorf("cannot derive root domain from %q", hostname)
		}
		value = "*." + root
		isPattern = true
	}

	set, err := uc.exclRepo.Add(ctx, value, isPattern)
	if err != nil {
		return entity.ExclusionSet{}, fmt.Errorf("add exclusion: %w", err)
	}

	log.Info().Str("value", value).Bool("pattern", isPattern).Msg("exclusion added")
	return set, nil
}

// Remove deletes a stored rule. Idempotent no-op when absent.
func (uc *ManageExclusionsUseCase) Remove(ctx context.Context, value string, isPattern bool) (entity.ExclusionSet, error) {
	set, err := uc.exclRepo.Remove(ctx, value, isPattern)
	if err != nil {
		return entity.ExclusionSet{}, fmt.Errorf("remove exclusion: %w", err)
	}
	return set, nil
}

// Check reports the exclusion state of a hostname.
func (uc *ManageExclusionsUseCase) Check(ctx context.Context, hostname string) (ExclusionStatus, error) {
	set, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return ExclusionStatus{}, fmt.Errorf("read exclusions: %w", err)
	}

	root, _ := urlutil.RootDomain(hostname)
	status := ExclusionStatus{
		Hostname:   hostname,
		RootDomain: root,
	}

	if set.ContainsExact(hostname) {
		status.IsExcluded = true
		status.IsExact = true
		return status, nil
	}
	if pattern := set.MatchedPattern(hostname); pattern != "" {
		status.IsExcluded = true
		status.MatchedPattern = pattern
	}
	return status, nil
}

// Set returns the current exclusion rule set.
func (uc *ManageExclusionsUseCase) Set(ctx context.Context) (entity.ExclusionSet, error) {
	return uc.exclRepo.Get(ctx)
}
