package response

import (
	"path"
	"time"

	"reuniteme/internal/data/entity"
)

// ImageResponse never carries the bucket or object key.
type ImageResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Description string    `json:"description"`
	UploadDate  time.Time `json:"uploadDate"`
}

type URLResponse struct {
	URL string `json:"url"`
}

type UploadResponse struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AdminContributionResponse struct {
	ID          string           `json:"id"`
	UploadedBy  string           `json:"uploadedBy"`
	ImgURL      string           `json:"imgUrl"`
	FileName    string           `json:"fileName"`
	FileType    string           `json:"fileType"`
	FileSize    int64            `json:"fileSize"`
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	Phone       string           `json:"phone"`
	Description string           `json:"description"`
	UploadDate  time.Time        `json:"uploadDate"`
	Location    LocationResponse `json:"location"`
}

type PlotInfoResponse struct {
	ID         string    `json:"id"`
	UploadedBy string    `json:"uploadedBy"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	UploadDate time.Time `json:"uploadDate"`
}

// FileName is the last segment of a storage key.
func FileName(key string) string {
	return path.Base(key)
}

func ImageToResponse(c *entity.Contribution, url string) ImageResponse {
	return ImageResponse{
		ID:          c.ID.String(),
		URL:         url,
		FileName:    FileName(c.Key),
		FileType:    c.FileType,
		FileSize:    c.FileSize,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		Description: c.Description,
		UploadDate:  c.UploadDate,
	}
}

func AdminContributionToResponse(c *entity.ContributionWithContributor, url string) AdminContributionResponse {
	return AdminContributionResponse{
		ID:          c.ID.String(),
		UploadedBy:  c.UploadedBy,
		ImgURL:      url,
		FileName:    FileName(c.Key),
		FileType:    c.FileType,
		FileSize:    c.FileSize,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		Description: c.Description,
		UploadDate:  c.UploadDate,
		Location: LocationResponse{
			Latitude:  c.Location.Latitude,
			Longitude: c.Location.Longitude,
		},
	}
}

func PlotInfoToResponse(c *entity.ContributionWithContributor) PlotInfoResponse {
	return PlotInfoResponse{
		ID:         c.ID.String(),
		UploadedBy: c.UploadedBy,
		Latitude:   c.Location.Latitude,
		Longitude:  c.Location.Longitude,
		UploadDate: c.UploadDate,
	}
}
