package storage

const (
	// Transaction queries
	CreateTransactionQuery = `
		INSERT INTO transactions (transaction_id, timestamp, amount, currency, customer_id, product_id, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	GetTransactionByIDQuery = `
		SELECT transaction_id, timestamp, amount, currency, customer_id, product_id, quantity, created_at
		FROM transactions
		WHERE transaction_id = $1
	`

	// Customer queries
	CreateCustomerQuery = `
		INSERT INTO customers (id, name, email, phone_number, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, phone_number, address, is_active, created_at, updated_at
	`

	GetCustomerByIDQuery = `
		SELECT id, name, email, phone_number, address, is_active, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	DeleteCustomerQuery = `
		DELETE FROM customers
		WHERE id = $1
	`

	// Product queries
	CreateProductQuery = `
		INSERT INTO products (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_at
	`

	GetProductByIDQuery = `
		SELECT id, name, description, created_at
		FROM products
		WHERE id = $1
	`

	DeleteProductQuery = `
		DELETE FROM products
		WHERE id = $1
	`
)
