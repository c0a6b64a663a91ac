package mobygames

import (
	"context"
	"strings"

	"github.com/grantgg11/gamegrinding/internal/alert"
	"github.com/sirupsen/logrus"
)

// companyRole is the internal mapping target for the API's free-form role
// strings. Roles outside the table are unmapped and ignored.
type companyRole int

const (
	roleUnmapped companyRole = iota
	roleDeveloper
	rolePublisher
)

var knownRoles = map[string]companyRole{
	"developed by": roleDeveloper,
	"published by": rolePublisher,
}

func roleFor(raw string) companyRole {
	role, ok := knownRoles[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return roleUnmapped
	}
	return role
}

// resolvePlatforms fetches the platform list for a game and the per-platform
// release metadata for each entry. Failures are logged and alerted per item;
// the returned list holds whatever resolved. List order follows the API
// response order.
func (s *Service) resolvePlatforms(ctx context.Context, userID uint64, gameID int) []PlatformDetail {
	records, err := s.client.GetGamePlatforms(ctx, userID, gameID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"game_id": gameID,
		}).WithError(err).Warn("Platform list fetch failed")
		s.alerter.Raise(alert.CategoryPlatformFetch, "Could not load the platform list for this game. Try the search again later.")
		return nil
	}

	details := make([]PlatformDetail, 0, len(records))
	for _, record := range records {
		if cached, ok := s.cache.getPlatform(record.PlatformID); ok {
			details = append(details, cached)
			continue
		}

		raw, err := s.client.GetPlatformDetail(ctx, userID, gameID, record.PlatformID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"game_id":     gameID,
				"platform_id": record.PlatformID,
			}).WithError(err).Warn("Platform detail fetch failed")
			s.alerter.Raise(alert.CategoryPlatformDetails, "Details for one platform could not be loaded; the game may be missing developer or publisher info.")
			continue
		}

		if raw.PlatformName == "" {
			raw.PlatformName = record.PlatformName
		}
		if raw.FirstReleaseDate == "" {
			raw.FirstReleaseDate = record.FirstReleaseDate
		}

		detail := resolveCompanies(record.PlatformID, raw)
		s.cache.setPlatform(record.PlatformID, detail)
		details = append(details, detail)
	}

	return details
}

// resolveCompanies scans the nested releases/companies payload for developer
// and publisher names. Matching is case-insensitive and the last match wins;
// a missing role stays "Unknown". A payload without a releases list resolves
// to defaults without complaint.
func resolveCompanies(platformID int, raw platformDetailRecord) PlatformDetail {
	detail := PlatformDetail{
		PlatformID:  platformID,
		Name:        raw.PlatformName,
		Developer:   unknownValue,
		Publisher:   unknownValue,
		ReleaseDate: raw.FirstReleaseDate,
	}

	for _, release := range raw.Releases {
		for _, company := range release.Companies {
			if company.CompanyName == "" {
				continue
			}
			switch roleFor(company.Role) {
			case roleDeveloper:
				detail.Developer = company.CompanyName
			case rolePublisher:
				detail.Publisher = company.CompanyName
			}
		}
	}

	return detail
}
