package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type ProductRepository interface {
	GetProducts() ([]entities.Product, error)
	GetProduct(id int64) (*entities.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db}
}

func (r *productRepository) GetProducts() ([]entities.Product, error) {
	var products []entities.Product
	err := r.db.Order("title_prod").Find(&products).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return products, nil
}

func (r *productRepository) GetProduct(id int64) (*entities.Product, error) {
	var product entities.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownProduct)
	}
	return &product, nil
}
