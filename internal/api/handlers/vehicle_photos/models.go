package vehicle_photos

import (
	"github.com/m04kA/SMC-OrderFlow/internal/service/photos"
)

// ImageResponse сохраненная фотография
type ImageResponse struct {
	ID              string `json:"id"`
	Filename        string `json:"filename"`
	URL             string `json:"url"`
	Category        string `json:"category"`
	PendingDeletion bool   `json:"pendingDeletion"`
}

// PendingImageResponse фотография, ожидающая загрузки
type PendingImageResponse struct {
	LocalID  string `json:"localId"`
	Filename string `json:"filename"`
	Category string `json:"category"`
	Size     int    `json:"size"`
}

// PhotoSetResponse состояние редактирования
type PhotoSetResponse struct {
	VehicleID     string                 `json:"vehicleId"`
	Images        []ImageResponse        `json:"images"`
	Pending       []PendingImageResponse `json:"pending"`
	InteriorCount int                    `json:"interiorCount"`
	ExteriorCount int                    `json:"exteriorCount"`
	Complete      bool                   `json:"complete"`
	Confirming    bool                   `json:"confirming"`
}

// AddPhotoResponse ответ на добавление фотографии
type AddPhotoResponse struct {
	LocalID string            `json:"localId"`
	Photos  *PhotoSetResponse `json:"photos"`
}

// FromPhotoSet конвертирует состояние редактирования в HTTP ответ
func FromPhotoSet(set photos.PhotoSet) *PhotoSetResponse {
	marked := make(map[string]bool, len(set.PendingDeletes))
	for _, id := range set.PendingDeletes {
		marked[id] = true
	}

	resp := &PhotoSetResponse{
		VehicleID:     set.VehicleID,
		Images:        make([]ImageResponse, 0, len(set.Images)),
		Pending:       make([]PendingImageResponse, 0, len(set.PendingAdds)),
		InteriorCount: set.InteriorCount,
		ExteriorCount: set.ExteriorCount,
		Complete:      set.Complete,
		Confirming:    set.Confirming,
	}
	for _, img := range set.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:              img.ID,
			Filename:        img.Filename,
			URL:             img.URL,
			Category:        string(img.Category),
			PendingDeletion: marked[img.ID],
		})
	}
	for _, p := range set.PendingAdds {
		resp.Pending = append(resp.Pending, PendingImageResponse{
			LocalID:  p.LocalID,
			Filename: p.Image.Filename,
			Category: string(p.Image.Category),
			Size:     len(p.Image.Data),
		})
	}
	return resp
}
