// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrCreateProduct = errors.New("failed to create product")
var ErrUpdateProduct = errors.New("failed to update product")
var ErrDeleteProduct = errors.New("failed to delete product")
var ErrDuplicateKey = errors.New("product with this UPC already exists")

var ErrProductNotFound = errors.New("product not found")
var ErrFailedToFindProduct = errors.New("failed to find product")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

var ErrPublishEvent = errors.New("failed to publish event")
