package domain

import "strings"

const (
	// GeometryTypePoint - единственный поддерживаемый тип GeoJSON геометрии
	GeometryTypePoint = "Point"

	imageUploadSegment    = "/upload"
	imageDisplayTransform = "/upload/h_300,w_250"
)

// Coordinates - результат геокодирования (долгота, широта)
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Geometry - GeoJSON точка; coordinates в порядке [lon, lat]
type Geometry struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// NewPointGeometry строит точку из координат
func NewPointGeometry(c Coordinates) Geometry {
	return Geometry{
		Type:        GeometryTypePoint,
		Coordinates: [2]float64{c.Lon, c.Lat},
	}
}

// SentinelGeometry - точка [0,0], используемая когда геокодирование не дало результата.
// Валидное, но бессмысленное значение, а не ошибка.
func SentinelGeometry() Geometry {
	return Geometry{Type: GeometryTypePoint, Coordinates: [2]float64{0, 0}}
}

// IsSentinel проверяет, является ли геометрия заглушкой
func (g Geometry) IsSentinel() bool {
	return g.Coordinates[0] == 0 && g.Coordinates[1] == 0
}

// Lon возвращает долготу
func (g Geometry) Lon() float64 { return g.Coordinates[0] }

// Lat возвращает широту
func (g Geometry) Lat() float64 { return g.Coordinates[1] }

// Image - ссылка на загруженное изображение в blob storage
type Image struct {
	URL      string `json:"url" db:"image_url" bson:"url"`
	Filename string `json:"filename" db:"image_filename" bson:"filename"`
}

// DisplayURL возвращает уменьшенный вариант изображения для формы редактирования.
// Проекция вычисляется при чтении и не сохраняется; путь обслуживает ресайзящий CDN перед хранилищем.
func (i *Image) DisplayURL() string {
	if i == nil || i.URL == "" {
		return ""
	}
	return strings.Replace(i.URL, imageUploadSegment, imageDisplayTransform, 1)
}
