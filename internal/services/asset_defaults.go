package services

import (
	"errors"

	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
)

// resolveParentGroup returns the parent group id for a new asset or
// liability. An explicit parent is validated for ownership; a missing
// one resolves to the owner's "Ungrouped" group, ensured on demand so
// the created record is never parentless.
func resolveParentGroup(groups GroupServicer, userID string, parentID *string) (*string, error) {
	if parentID != nil {
		if _, err := groups.GetGroupByID(userID, *parentID); err != nil {
			if errors.Is(err, apperrors.ErrGroupNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrGroupNotFound, "parent group not found")
			}
			return nil, err
		}
		return parentID, nil
	}

	_, ungrouped, err := groups.EnsureDefaultGroups(userID)
	if err != nil {
		return nil, err
	}
	return &ungrouped.ID, nil
}

// roundNull rounds a nullable decimal to the given number of places.
func roundNull(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NullDecimal{Decimal: d.Decimal.Round(places), Valid: true}
}
