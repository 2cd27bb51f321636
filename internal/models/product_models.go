package models

import (
	"time"

	"github.com/google/uuid"
)

// Product - товар, на который ссылаются транзакции
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateProductRequest запрос на создание товара
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
