package domain

import "context"

// DataSource определяет методы чтения документов из МойСклад.
// Методы выборок возвращают пустой срез при недоступности источника:
// для отчетов "нет данных" и "источник недоступен" не различаются.
type DataSource interface {
	CustomerOrders(ctx context.Context, rng DateRange) ([]TransactionRecord, error)
	RetailSales(ctx context.Context, rng DateRange) ([]TransactionRecord, error)
	IncomingPayments(ctx context.Context, rng DateRange) ([]TransactionRecord, error)
	OrganizationInfo(ctx context.Context) (*Organization, error)
}

// TokenRepository определяет методы хранилища токенов и профилей пользователей
type TokenRepository interface {
	Get(ctx context.Context, userID int64) (*UserRecord, error)
	Set(ctx context.Context, userID int64, rec *UserRecord) error
	// Delete удаляет токен и поля организации, профиль пользователя остается
	Delete(ctx context.Context, userID int64) error
	// Touch обновляет профиль и время последней активности
	Touch(ctx context.Context, userID int64, username, firstName, lastName string) error
	ListLinked(ctx context.Context) ([]LinkedUser, error)
}
