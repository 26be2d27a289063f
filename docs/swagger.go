// Package docs Listing Service API.
//
// Сервис объявлений об аренде: создание, просмотр, редактирование и удаление
// объявлений с геокодированием адреса и изображениями во внешнем blob storage.
//
// Основные возможности:
// - Список объявлений с фильтром по категории
// - Создание объявления с геокодированием "location, country"
// - Изменение и удаление только владельцем
// - Фоновое повторное геокодирование объявлений с точкой [0,0]
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	Produces:
//	- application/json
//
//	Security:
//	- BearerAuth:
//
//	SecurityDefinitions:
//	BearerAuth:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
