package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

const maxErrorBody = 4 << 10

// Client клиент для работы с backend (автомобили, адреса, услуги, изображения)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента backend
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListVehicles получает автомобили клиента
func (c *Client) ListVehicles(ctx context.Context, customerID string) ([]domain.Vehicle, error) {
	var resp []Vehicle
	if err := c.doJSON(ctx, http.MethodGet, c.customerPath(customerID, "vehicles"), nil, &resp, ErrNotFound); err != nil {
		return nil, err
	}

	vehicles := make([]domain.Vehicle, 0, len(resp))
	for i := range resp {
		vehicles = append(vehicles, resp[i].toDomain())
	}
	return vehicles, nil
}

// GetVehicle получает автомобиль клиента вместе с фотографиями
func (c *Client) GetVehicle(ctx context.Context, customerID, vehicleID string) (*domain.Vehicle, error) {
	var resp Vehicle
	if err := c.doJSON(ctx, http.MethodGet, c.customerPath(customerID, "vehicles", vehicleID), nil, &resp, ErrNotFound); err != nil {
		return nil, err
	}
	v := resp.toDomain()
	return &v, nil
}

// CreateVehicle создает автомобиль клиента
func (c *Client) CreateVehicle(ctx context.Context, customerID string, in VehicleInput) (*domain.Vehicle, error) {
	var resp Vehicle
	if err := c.doJSON(ctx, http.MethodPost, c.customerPath(customerID, "vehicles"), in, &resp, ErrNotFound); err != nil {
		return nil, err
	}
	v := resp.toDomain()
	return &v, nil
}

// UpdateVehicle изменяет автомобиль клиента
func (c *Client) UpdateVehicle(ctx context.Context, customerID, vehicleID string, in VehicleInput) (*domain.Vehicle, error) {
	var resp Vehicle
	if err := c.doJSON(ctx, http.MethodPut, c.customerPath(customerID, "vehicles", vehicleID), in, &resp, ErrNotFound); err != nil {
		return nil, err
	}
	v := resp.toDomain()
	return &v, nil
}

// DeleteVehicle удаляет автомобиль клиента
func (c *Client) DeleteVehicle(ctx context.Context, customerID, vehicleID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.customerPath(customerID, "vehicles", vehicleID), nil, nil, ErrNotFound)
}

// ListAddresses получает адреса клиента
func (c *Client) ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	var resp []Address
	if err := c.doJSON(ctx, http.MethodGet, c.customerPath(customerID, "addresses"), nil, &resp, ErrNotFound); err != nil {
		return nil, err
	}

	addresses := make([]domain.Address, 0, len(resp))
	for i := range resp {
		addresses = append(addresses, resp[i].toDomain())
	}
	return addresses, nil
}

// CreateAddress создает адрес клиента
func (c *Client) CreateAddress(ctx context.Context, customerID string, in AddressInput) (*domain.Address, error) {
	var resp Address
	if err := c.doJSON(ctx, http.MethodPost, c.customerPath(customerID, "addresses"), in, &resp, ErrNotFound); err != nil {
		return nil, err
	}
	a := resp.toDomain()
	return &a, nil
}

// DeleteAddress удаляет адрес клиента
func (c *Client) DeleteAddress(ctx context.Context, customerID, addressID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.customerPath(customerID, "addresses", addressID), nil, nil, ErrNotFound)
}

// ListServices получает каталог услуг
func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var resp []Service
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/services", nil, &resp, ErrNotFound); err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(resp))
	for i := range resp {
		services = append(services, resp[i].toDomain())
	}
	return services, nil
}

// UploadImages загружает изображения одним multipart-запросом.
// Ответ содержит созданные изображения в порядке загрузки.
func (c *Client) UploadImages(ctx context.Context, vehicleID string, images []domain.NewImage) ([]domain.VehicleImage, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, img := range images {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		contentType := img.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create multipart part: %v", ErrInternal, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("%w: failed to write multipart part: %v", ErrInternal, err)
		}
		if err := writer.WriteField("categories", string(img.Category)); err != nil {
			return nil, fmt.Errorf("%w: failed to write category field: %v", ErrInternal, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to close multipart writer: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.imagesPath(vehicleID), body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp []Image
	if err := c.do(req, &resp, ErrNotFound); err != nil {
		return nil, err
	}

	uploaded := make([]domain.VehicleImage, 0, len(resp))
	for i := range resp {
		uploaded = append(uploaded, resp[i].toDomain())
	}
	c.log.Info("UploadImages: uploaded %d images for vehicle=%s", len(uploaded), vehicleID)
	return uploaded, nil
}

// DeleteImage удаляет изображение; 404 возвращается как ErrImageNotFound
func (c *Client) DeleteImage(ctx context.Context, vehicleID, imageID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.imagesPath(vehicleID)+"/"+url.PathEscape(imageID), nil, nil, ErrImageNotFound)
}

func (c *Client) customerPath(customerID string, parts ...string) string {
	path := "/api/v1/customers/" + url.PathEscape(customerID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

func (c *Client) imagesPath(vehicleID string) string {
	return "/api/v1/vehicles/" + url.PathEscape(vehicleID) + "/images"
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}, notFound error) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out, notFound)
}

func (c *Client) do(req *http.Request, out interface{}, notFound error) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %s %s", domain.ErrCanceled, req.Method, req.URL.Path)
		}
		c.log.Error("backend: %s %s failed: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(resp.Body))
	case resp.StatusCode == http.StatusNotFound:
		return notFound
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, errorMessage(resp.Body))
	case resp.StatusCode >= 500:
		c.log.Error("backend: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		return fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, errorMessage(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		return nil
	}
	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// errorMessage extracts ErrorResponse.Message, falling back to the raw body
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var er ErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return string(raw)
}
