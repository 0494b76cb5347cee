package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/geocoder"
	"devcamp-api/pkg/helpers"
)

// BootcampService owns bootcamp listings: CRUD with ownership checks, the
// radius search, photo upload to GCS, and Elasticsearch text search.
type BootcampService struct {
	Bootcamps repository.BootcampRepository
	Geo       geocoder.Geocoder
	Redis     *redis.Client
	Logger    *logrus.Logger

	ES      *elasticsearch.Client
	ESIndex string

	GCS       *storage.Client
	GCSBucket string
	MaxUpload int64
}

type BootcampInput struct {
	Name          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Careers       []string
	Housing       *bool
	JobAssistance *bool
	JobGuarantee  *bool
	AcceptGi      *bool
}

func (s *BootcampService) List(ctx context.Context, p repository.ListParams) ([]*entity.Bootcamp, int, error) {
	return s.Bootcamps.List(ctx, p)
}

func (s *BootcampService) Get(ctx context.Context, id string) (*entity.Bootcamp, error) {
	return s.Bootcamps.GetByID(ctx, id)
}

// Create publishes a bootcamp owned by the principal. Non-admin publishers are
// limited to one bootcamp. The address is resolved through the geocoder and
// only derived coordinates are stored alongside it.
func (s *BootcampService) Create(ctx context.Context, principal *entity.User, in BootcampInput) (*entity.Bootcamp, error) {
	if principal.Role != entity.RoleAdmin {
		if existing, err := s.Bootcamps.GetByUser(ctx, principal.ID); err == nil && existing != nil {
			return nil, apierror.BadRequest(fmt.Sprintf("The user with ID %s has already published a bootcamp", principal.ID))
		}
	}

	b := &entity.Bootcamp{
		Name:        in.Name,
		Slug:        slugify(in.Name),
		Description: in.Description,
		Website:     in.Website,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		Careers:     in.Careers,
		UserID:      principal.ID,
	}
	if in.Housing != nil {
		b.Housing = *in.Housing
	}
	if in.JobAssistance != nil {
		b.JobAssistance = *in.JobAssistance
	}
	if in.JobGuarantee != nil {
		b.JobGuarantee = *in.JobGuarantee
	}
	if in.AcceptGi != nil {
		b.AcceptGi = *in.AcceptGi
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}

	loc, err := s.Geo.Geocode(ctx, in.Address)
	if err != nil {
		return nil, apierror.BadRequest("Address could not be geocoded")
	}
	b.Latitude = loc.Latitude
	b.Longitude = loc.Longitude
	b.FormattedAddress = loc.FormattedAddress

	if err := s.Bootcamps.Create(ctx, b); err != nil {
		return nil, err
	}
	s.index(ctx, b)
	return b, nil
}

// Update applies the provided fields after an ownership check. A changed
// address is re-geocoded.
func (s *BootcampService) Update(ctx context.Context, principal *entity.User, id string, in BootcampInput) (*entity.Bootcamp, error) {
	b, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnerOrAdmin(principal, b.UserID) {
		return nil, apierror.Forbidden(fmt.Sprintf("User %s is not authorized to update this bootcamp", principal.ID))
	}

	if in.Name != "" {
		b.Name = in.Name
		b.Slug = slugify(in.Name)
	}
	if in.Description != "" {
		b.Description = in.Description
	}
	if in.Website != "" {
		b.Website = in.Website
	}
	if in.Phone != "" {
		b.Phone = in.Phone
	}
	if in.Email != "" {
		b.Email = in.Email
	}
	if in.Careers != nil {
		b.Careers = in.Careers
	}
	if in.Housing != nil {
		b.Housing = *in.Housing
	}
	if in.JobAssistance != nil {
		b.JobAssistance = *in.JobAssistance
	}
	if in.JobGuarantee != nil {
		b.JobGuarantee = *in.JobGuarantee
	}
	if in.AcceptGi != nil {
		b.AcceptGi = *in.AcceptGi
	}
	if in.Address != "" && in.Address != b.Address {
		loc, gerr := s.Geo.Geocode(ctx, in.Address)
		if gerr != nil {
			return nil, apierror.BadRequest("Address could not be geocoded")
		}
		b.Address = in.Address
		b.Latitude = loc.Latitude
		b.Longitude = loc.Longitude
		b.FormattedAddress = loc.FormattedAddress
	}

	if err := s.Bootcamps.Update(ctx, b); err != nil {
		return nil, err
	}
	s.index(ctx, b)
	return b, nil
}

func (s *BootcampService) Delete(ctx context.Context, principal *entity.User, id string) error {
	b, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !entity.IsOwnerOrAdmin(principal, b.UserID) {
		return apierror.Forbidden(fmt.Sprintf("User %s is not authorized to delete this bootcamp", principal.ID))
	}
	if err := s.Bootcamps.Delete(ctx, id); err != nil {
		return err
	}
	s.unindex(ctx, id)
	return nil
}

// WithinRadius geocodes the zipcode and returns bootcamps inside the given
// distance in miles. Results are cached briefly in Redis keyed by
// zipcode+distance since the underlying data changes rarely.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]*entity.Bootcamp, error) {
	if distanceMiles <= 0 {
		return nil, apierror.BadRequest("Distance must be a positive number of miles")
	}

	cacheKey := "bootcamps:radius:" + zipcode + ":" + strconv.FormatFloat(distanceMiles, 'f', -1, 64)
	if s.Redis != nil {
		var cached []*entity.Bootcamp
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	loc, err := s.Geo.Geocode(ctx, zipcode)
	if err != nil {
		return nil, apierror.BadRequest("Zipcode could not be geocoded")
	}
	out, err := s.Bootcamps.WithinRadius(ctx, loc.Latitude, loc.Longitude, distanceMiles)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, cacheKey, out, 10*time.Minute); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", cacheKey).Warn("radius cache write failed")
		}
	}
	return out, nil
}

// UploadPhoto stores a bootcamp photo in GCS and records its public URL.
func (s *BootcampService) UploadPhoto(ctx context.Context, principal *entity.User, id, filename, contentType string, size int64, r io.Reader) (string, error) {
	b, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !entity.IsOwnerOrAdmin(principal, b.UserID) {
		return "", apierror.Forbidden(fmt.Sprintf("User %s is not authorized to update this bootcamp", principal.ID))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", apierror.BadRequest("Please upload an image file")
	}
	if size > s.MaxUpload {
		return "", apierror.BadRequest(fmt.Sprintf("Please upload an image smaller than %d bytes", s.MaxUpload))
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apierror.ServerError("Problem with file upload")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", b.ID+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("bootcamp_id", b.ID).Error("photo upload failed")
		}
		return "", apierror.ServerError("Problem with file upload")
	}
	if err := s.Bootcamps.SetPhoto(ctx, b.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

// Search runs a multi_match query over name and description in Elasticsearch.
func (s *BootcampService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	body, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// index mirrors the bootcamp into Elasticsearch, best effort.
func (s *BootcampService) index(ctx context.Context, b *entity.Bootcamp) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          b.ID,
		"name":        b.Name,
		"slug":        b.Slug,
		"description": b.Description,
		"careers":     b.Careers,
		"created_at":  b.CreatedAt.Format(time.RFC3339Nano),
	}
	raw, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: b.ID, Body: strings.NewReader(string(raw)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("bootcamp_id", b.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("bootcamp_id", b.ID).Warn("es index response error")
	}
}

func (s *BootcampService) unindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

func slugify(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
