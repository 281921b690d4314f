package sync

import (
	"fmt"
	"log"
	"strings"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// Job titles assigned to contacts created during sync.
const (
	jobTitleDirector = "Film Director"
	jobTitleActor    = "Actor"
)

// ResolvePerson finds or creates the contact for a name and role. The
// match is exact name plus role flag; a director and an actor with the
// same name are separate contacts, and namesakes within one role share
// a record. Blank names resolve to no contact without error.
//
// When profilePath is set and the contact has no stored image yet, the
// image is fetched best-effort; a download failure never fails the
// resolution.
func (s *Service) ResolvePerson(name, role, profilePath string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	p, err := s.people.FindByNameAndRole(name, role)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &models.Person{
			ID:   uuid.New(),
			Name: name,
		}
		switch role {
		case models.RoleDirector:
			p.IsDirector = true
			jt := jobTitleDirector
			p.JobTitle = &jt
		case models.RoleActor:
			p.IsActor = true
			jt := jobTitleActor
			p.JobTitle = &jt
		default:
			return nil, fmt.Errorf("unknown role %q", role)
		}
		if profilePath != "" {
			p.ProfilePath = &profilePath
		}
		if err := s.people.Create(p); err != nil {
			return nil, err
		}
	}

	if profilePath != "" && !p.HasPhoto {
		s.backfillPhoto(p, profilePath)
	}
	return p, nil
}

// backfillPhoto downloads and stores the profile image. Failures are
// logged and swallowed so a flaky image CDN cannot break a sync.
func (s *Service) backfillPhoto(p *models.Person, profilePath string) {
	photo, err := s.catalog.ProfileImage(profilePath)
	if err != nil {
		log.Printf("sync: failed to fetch image for %s: %v", p.Name, err)
		return
	}
	if err := s.people.UpdatePhoto(p.ID, profilePath, photo); err != nil {
		log.Printf("sync: failed to store image for %s: %v", p.Name, err)
		return
	}
	p.HasPhoto = true
}

// ContactSyncResult reports an image backfill pass over all contacts.
type ContactSyncResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// SyncAllContacts backfills images for every contact that has a profile
// path on record but no stored image. Individual failures are counted
// and skipped.
func (s *Service) SyncAllContacts() (*ContactSyncResult, error) {
	missing, err := s.people.ListMissingPhotos()
	if err != nil {
		return nil, err
	}

	result := &ContactSyncResult{Total: len(missing)}
	for _, p := range missing {
		photo, err := s.catalog.ProfileImage(*p.ProfilePath)
		if err != nil {
			log.Printf("sync: failed to fetch image for %s: %v", p.Name, err)
			result.Failed++
			continue
		}
		if err := s.people.UpdatePhoto(p.ID, *p.ProfilePath, photo); err != nil {
			log.Printf("sync: failed to store image for %s: %v", p.Name, err)
			result.Failed++
			continue
		}
		result.Updated++
	}
	return result, nil
}
