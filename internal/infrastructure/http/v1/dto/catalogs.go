package dto

import (
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
)

// --- Items ---

// CreateItemRequest is the request body for creating an item.
// A blank code gets auto-assigned (ITEM-numbered).
type CreateItemRequest struct {
	Code           string         `json:"code"`
	Name           string         `json:"name" binding:"required"`
	Unit           string         `json:"unit" binding:"required"`
	Category       *string        `json:"category"`
	IsRawMaterial  bool           `json:"isRawMaterial"`
	IsFinishedGood bool           `json:"isFinishedGood"`
	IsPurchased    bool           `json:"isPurchased"`
	IsManufactured bool           `json:"isManufactured"`
	ReorderLevel   types.Quantity `json:"reorderLevel"`
	StandardCost   types.Money    `json:"standardCost"`
	SellingPrice   types.Money    `json:"sellingPrice"`
	IsActive       *bool          `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, r.Unit)
	it.Category = r.Category
	it.IsRawMaterial = r.IsRawMaterial
	it.IsFinishedGood = r.IsFinishedGood
	it.IsPurchased = r.IsPurchased
	it.IsManufactured = r.IsManufactured
	it.ReorderLevel = r.ReorderLevel
	it.StandardCost = r.StandardCost
	it.SellingPrice = r.SellingPrice
	if r.IsActive != nil {
		it.IsActive = *r.IsActive
	}
	return it
}

// UpdateItemRequest is the request body for updating an item.
// CurrentStock is absent on purpose: it belongs to the stock register.
type UpdateItemRequest struct {
	Code           string         `json:"code"`
	Name           string         `json:"name" binding:"required"`
	Unit           string         `json:"unit" binding:"required"`
	Category       *string        `json:"category"`
	IsRawMaterial  bool           `json:"isRawMaterial"`
	IsFinishedGood bool           `json:"isFinishedGood"`
	IsPurchased    bool           `json:"isPurchased"`
	IsManufactured bool           `json:"isManufactured"`
	ReorderLevel   types.Quantity `json:"reorderLevel"`
	StandardCost   types.Money    `json:"standardCost"`
	SellingPrice   types.Money    `json:"sellingPrice"`
	IsActive       bool           `json:"isActive"`
	Version        int            `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.Unit = r.Unit
	it.Category = r.Category
	it.IsRawMaterial = r.IsRawMaterial
	it.IsFinishedGood = r.IsFinishedGood
	it.IsPurchased = r.IsPurchased
	it.IsManufactured = r.IsManufactured
	it.ReorderLevel = r.ReorderLevel
	it.StandardCost = r.StandardCost
	it.SellingPrice = r.SellingPrice
	it.IsActive = r.IsActive
	it.Version = r.Version
}

// --- Warehouses ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
	IsActive *bool   `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Location = r.Location
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
	IsActive bool    `json:"isActive"`
	Version  int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Location = r.Location
	wh.IsActive = r.IsActive
	wh.Version = r.Version
}

// --- Customers ---

// CreateCustomerRequest is the request body for creating a customer.
// A blank code gets auto-assigned (CUST-numbered).
type CreateCustomerRequest struct {
	Code           string      `json:"code"`
	Name           string      `json:"name" binding:"required"`
	ContactPerson  *string     `json:"contactPerson"`
	Phone          *string     `json:"phone"`
	Email          *string     `json:"email"`
	Address        *string     `json:"address"`
	CreditLimit    types.Money `json:"creditLimit"`
	OpeningBalance types.Money `json:"openingBalance"`
	IsActive       *bool       `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	c.ContactPerson = r.ContactPerson
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.CreditLimit = r.CreditLimit
	c.OpeningBalance = r.OpeningBalance
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
// CurrentBalance is absent on purpose: it is derived from open invoices.
type UpdateCustomerRequest struct {
	Code          string      `json:"code"`
	Name          string      `json:"name" binding:"required"`
	ContactPerson *string     `json:"contactPerson"`
	Phone         *string     `json:"phone"`
	Email         *string     `json:"email"`
	Address       *string     `json:"address"`
	CreditLimit   types.Money `json:"creditLimit"`
	IsActive      bool        `json:"isActive"`
	Version       int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.ContactPerson = r.ContactPerson
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.CreditLimit = r.CreditLimit
	c.IsActive = r.IsActive
	c.Version = r.Version
}
