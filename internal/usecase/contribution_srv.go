package usecase

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/dto/request"
	"reuniteme/internal/dto/response"
	"reuniteme/pkg/geotag"
	"reuniteme/pkg/storage"
	"reuniteme/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContributionService interface {
	Upload(ctx context.Context, userID uuid.UUID, file *request.UploadFile, meta *request.ContributionMetadata) (*response.UploadResponse, error)
	Update(ctx context.Context, userID uuid.UUID, imageID string, file *request.UploadFile, meta *request.ContributionMetadata) error
	List(ctx context.Context, userID uuid.UUID) ([]response.ImageResponse, error)
	GetURL(ctx context.Context, userID uuid.UUID, imageID string) (*response.URLResponse, error)
	MapsURL(ctx context.Context, userID uuid.UUID, imageID string) (*response.URLResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, imageID string) error
	AllContributions(ctx context.Context) ([]response.AdminContributionResponse, error)
	PlotInfo(ctx context.Context) ([]response.PlotInfoResponse, error)
}

type contributionService struct {
	repo    *repository.Repository // users and contributions
	storage storage.ObjectStorage
	config  *utils.Config
	log     *zap.Logger
	now     func() time.Time
	locate  func(data []byte) (geotag.Location, error)
}

func NewContributionService(
	repo *repository.Repository,
	store storage.ObjectStorage,
	config *utils.Config,
	log *zap.Logger,
) ContributionService {
	return &contributionService{
		repo:    repo,
		storage: store,
		config:  config,
		log:     log.With(zap.String("service", "contribution")),
		now:     time.Now,
		locate:  geotag.Extract,
	}
}

// inspectedImage is an upload that passed type sniffing and carries a GPS position.
type inspectedImage struct {
	key      string
	fileType string
	size     int64
	data     []byte
	location geotag.Location
}

func objectKey(userID uuid.UUID, filename string) (string, bool) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	return userID.String() + "/" + name, true
}

func (s *contributionService) inspect(userID uuid.UUID, file *request.UploadFile) (*inspectedImage, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, newError(KindValidation, MsgNoFile, nil)
	}

	key, ok := objectKey(userID, file.Filename)
	if !ok {
		return nil, newError(KindValidation, "Invalid file name", nil)
	}

	mt := mimetype.Detect(file.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, newError(KindValidation, "Only image files are allowed", nil)
	}

	loc, err := s.locate(file.Data)
	if err != nil {
		return nil, newError(KindValidation, MsgMissingGeolocation, err)
	}

	return &inspectedImage{
		key:      key,
		fileType: mt.String(),
		size:     int64(len(file.Data)),
		data:     file.Data,
		location: loc,
	}, nil
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return entity.NotAvailable
	}
	return value
}

// Upload validates, geotags and stores one image, then records it.
// A record that cannot be written takes its freshly uploaded object with it.
func (s *contributionService) Upload(ctx context.Context, userID uuid.UUID, file *request.UploadFile, meta *request.ContributionMetadata) (*response.UploadResponse, error) {
	if err := s.requireActive(ctx, userID); err != nil {
		return nil, err
	}

	if meta == nil {
		meta = &request.ContributionMetadata{}
	}
	if errs := utils.ValidateStruct(meta); len(errs) > 0 {
		return nil, validationError(errs)
	}

	img, err := s.inspect(userID, file)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Contribution.FindByKey(ctx, userID, img.key)
	if err != nil {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, newError(KindDuplicateKey, "An image with this file name already exists", nil)
	}

	if err := s.storage.Upload(ctx, img.key, img.data, img.fileType); err != nil {
		return nil, newError(KindUpstream, "Failed to upload image", err)
	}

	c := &entity.Contribution{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        orNA(meta.Name),
		Address:     orNA(meta.Address),
		Phone:       orNA(meta.Phone),
		Description: orNA(meta.Description),
		Bucket:      s.storage.Bucket(),
		Key:         img.key,
		UploadDate:  s.now(),
		FileType:    img.fileType,
		FileSize:    img.size,
		Location: entity.Location{
			Latitude:  img.location.Latitude,
			Longitude: img.location.Longitude,
		},
	}

	if err := s.repo.Contribution.Create(ctx, c); err != nil {
		s.discardObject(ctx, img.key)
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, newError(KindDuplicateKey, "An image with this file name already exists", err)
		}
		return nil, internalError(err)
	}

	s.log.Info("Contribution uploaded",
		zap.String("user_id", userID.String()),
		zap.String("contribution_id", c.ID.String()),
		zap.Int64("size", c.FileSize))

	return &response.UploadResponse{ID: c.ID.String(), FileName: response.FileName(c.Key)}, nil
}

// Update patches metadata and optionally swaps the image. The new object is uploaded
// and recorded before the old one is removed, so a failure never leaves a dangling record.
func (s *contributionService) Update(ctx context.Context, userID uuid.UUID, imageID string, file *request.UploadFile, meta *request.ContributionMetadata) error {
	c, err := s.findOwned(ctx, userID, imageID)
	if err != nil {
		return err
	}

	if meta == nil {
		meta = &request.ContributionMetadata{}
	}
	if errs := utils.ValidateStruct(meta); len(errs) > 0 {
		return validationError(errs)
	}

	if meta.Name != "" {
		c.Name = meta.Name
	}
	if meta.Address != "" {
		c.Address = meta.Address
	}
	if meta.Phone != "" {
		c.Phone = meta.Phone
	}
	if meta.Description != "" {
		c.Description = meta.Description
	}

	oldKey := c.Key
	var img *inspectedImage
	if file != nil {
		img, err = s.inspect(userID, file)
		if err != nil {
			return err
		}

		if img.key != oldKey {
			clash, err := s.repo.Contribution.FindByKey(ctx, userID, img.key)
			if err != nil {
				return internalError(err)
			}
			if clash != nil {
				return newError(KindDuplicateKey, "An image with this file name already exists", nil)
			}
		}

		if err := s.storage.Upload(ctx, img.key, img.data, img.fileType); err != nil {
			return newError(KindUpstream, "Failed to upload image", err)
		}

		c.Bucket = s.storage.Bucket()
		c.Key = img.key
		c.FileType = img.fileType
		c.FileSize = img.size
		c.Location = entity.Location{
			Latitude:  img.location.Latitude,
			Longitude: img.location.Longitude,
		}
	}

	if err := s.repo.Contribution.Update(ctx, c); err != nil {
		if img != nil && img.key != oldKey {
			s.discardObject(ctx, img.key)
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return newError(KindDuplicateKey, "An image with this file name already exists", err)
		}
		return internalError(err)
	}

	if img != nil && img.key != oldKey {
		s.discardObject(ctx, oldKey)
	}

	s.log.Info("Contribution updated",
		zap.String("user_id", userID.String()),
		zap.String("contribution_id", c.ID.String()),
		zap.Bool("file_replaced", img != nil))
	return nil
}

func (s *contributionService) discardObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to remove stale object", zap.Error(err), zap.String("key", key))
	}
}

// requireActive rejects callers whose account was deleted after their token was issued.
func (s *contributionService) requireActive(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return internalError(err)
	}
	if user == nil || !user.IsActive {
		return newError(KindNotFound, MsgUserNotFound, nil)
	}
	return nil
}

func (s *contributionService) findOwned(ctx context.Context, userID uuid.UUID, imageID string) (*entity.Contribution, error) {
	if err := s.requireActive(ctx, userID); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(imageID)
	if err != nil {
		return nil, newError(KindNotFound, MsgImageNotFound, err)
	}

	c, err := s.repo.Contribution.FindByID(ctx, userID, id)
	if err != nil {
		return nil, internalError(err)
	}
	if c == nil {
		return nil, newError(KindNotFound, MsgImageNotFound, nil)
	}
	return c, nil
}

func (s *contributionService) presign(ctx context.Context, key string) (string, error) {
	url, err := s.storage.PresignGet(ctx, key, s.config.Storage.PresignExpiry())
	if err != nil {
		return "", newError(KindUpstream, "Failed to generate image url", err)
	}
	return url, nil
}

func (s *contributionService) List(ctx context.Context, userID uuid.UUID) ([]response.ImageResponse, error) {
	if err := s.requireActive(ctx, userID); err != nil {
		return nil, err
	}

	contributions, err := s.repo.Contribution.FindByUser(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}

	images := make([]response.ImageResponse, 0, len(contributions))
	for _, c := range contributions {
		url, err := s.presign(ctx, c.Key)
		if err != nil {
			return nil, err
		}
		images = append(images, response.ImageToResponse(c, url))
	}

	return images, nil
}

func (s *contributionService) GetURL(ctx context.Context, userID uuid.UUID, imageID string) (*response.URLResponse, error) {
	c, err := s.findOwned(ctx, userID, imageID)
	if err != nil {
		return nil, err
	}

	url, err := s.presign(ctx, c.Key)
	if err != nil {
		return nil, err
	}
	return &response.URLResponse{URL: url}, nil
}

func (s *contributionService) MapsURL(ctx context.Context, userID uuid.UUID, imageID string) (*response.URLResponse, error) {
	c, err := s.findOwned(ctx, userID, imageID)
	if err != nil {
		return nil, err
	}

	return &response.URLResponse{URL: geotag.MapsURL(geotag.Location{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
	})}, nil
}

// Delete removes the object first; if that fails the record stays so the image is still reachable.
func (s *contributionService) Delete(ctx context.Context, userID uuid.UUID, imageID string) error {
	c, err := s.findOwned(ctx, userID, imageID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, c.Key); err != nil {
		return newError(KindUpstream, "Failed to delete image", err)
	}

	deleted, err := s.repo.Contribution.Delete(ctx, userID, c.ID)
	if err != nil {
		return internalError(err)
	}
	if !deleted {
		return newError(KindNotFound, MsgImageNotFound, nil)
	}

	s.log.Info("Contribution deleted",
		zap.String("user_id", userID.String()),
		zap.String("contribution_id", c.ID.String()))
	return nil
}

func (s *contributionService) AllContributions(ctx context.Context) ([]response.AdminContributionResponse, error) {
	all, err := s.repo.Contribution.FindAllWithContributor(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]response.AdminContributionResponse, 0, len(all))
	for _, c := range all {
		url, err := s.presign(ctx, c.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, response.AdminContributionToResponse(c, url))
	}

	return out, nil
}

func (s *contributionService) PlotInfo(ctx context.Context) ([]response.PlotInfoResponse, error) {
	all, err := s.repo.Contribution.FindAllWithContributor(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]response.PlotInfoResponse, 0, len(all))
	for _, c := range all {
		out = append(out, response.PlotInfoToResponse(c))
	}

	return out, nil
}
