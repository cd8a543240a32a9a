package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind представляет вид финансового документа МойСклад
type RecordKind string

const (
	KindCustomerOrder   RecordKind = "customerorder"
	KindRetailSale      RecordKind = "retaildemand"
	KindIncomingPayment RecordKind = "paymentin"
)

// Форматы дат источника и отображения
const (
	APITimeLayout     = "2006-01-02 15:04:05"
	DisplayDateLayout = "02.01.2006"
)

// Плейсхолдеры для отсутствующих данных контрагента
const (
	UnnamedCounterparty = "Без имени"
	NotSpecified        = "Не указан"
)

// Синтетический контрагент для розничных продаж без агента
const (
	RetailCounterpartyID   = "retail_customer"
	RetailCounterpartyName = "Розничный клиент"
)

// Counterparty представляет контрагента (покупателя или плательщика)
type Counterparty struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// RetailCounterparty возвращает синтетического розничного контрагента
func RetailCounterparty() *Counterparty {
	return &Counterparty{
		ID:    RetailCounterpartyID,
		Name:  RetailCounterpartyName,
		Phone: NotSpecified,
		Email: NotSpecified,
	}
}

// TransactionRecord представляет один документ источника
// (заказ покупателя, розничную продажу или входящий платеж)
type TransactionRecord struct {
	ID          string
	Moment      time.Time
	Sum         decimal.Decimal // сумма в рублях; копейки источника уже поделены на 100
	Agent       *Counterparty   // nil, если у документа нет контрагента
	Kind        RecordKind
	PaymentType string // заполняется только для входящих платежей
}

// DateRange представляет закрытый диапазон дат в локальном времени источника
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter возвращает выражение фильтра по полю moment для API МойСклад
func (r DateRange) Filter() string {
	return fmt.Sprintf("moment>=%s;moment<=%s",
		r.Start.Format(APITimeLayout), r.End.Format(APITimeLayout))
}

// Days возвращает длительность диапазона в календарных днях, включая границы
func (r DateRange) Days() int {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, r.Start.Location())
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, r.End.Location())
	return int(end.Sub(start).Hours()/24) + 1
}

// Display возвращает границы диапазона в формате ДД.ММ.ГГГГ
func (r DateRange) Display() (string, string) {
	return r.Start.Format(DisplayDateLayout), r.End.Format(DisplayDateLayout)
}

// SubsetStats представляет количество, сумму и среднее по подмножеству документов
type SubsetStats struct {
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal // ноль при Count == 0
}

// Rollup представляет накопленную статистику по одному контрагенту
type Rollup struct {
	Counterparty
	Count int
	Total decimal.Decimal
}

// SalesSummary представляет агрегат продаж за период
type SalesSummary struct {
	Orders     SubsetStats // заказы покупателей
	Retail     SubsetStats // розничные продажи
	TotalSales SubsetStats // объединение

	// Анализ покупателей ведется только по заказам: у розницы
	// нет устойчивой идентичности контрагента
	CustomerCount      int
	NewCustomers       []Rollup // ровно один заказ
	ReturningCustomers []Rollup // больше одного заказа
	TopCustomers       []Rollup // топ-10 по сумме
}

// PaymentTypeStats представляет сумму и количество платежей одного типа
type PaymentTypeStats struct {
	Type  string
	Count int
	Total decimal.Decimal
}

// PaymentsSummary представляет агрегат входящих платежей за период
type PaymentsSummary struct {
	Payments     SubsetStats
	PayerCount   int
	TopPayers    []Rollup
	PaymentTypes []PaymentTypeStats // по убыванию суммы
	Recent       []TransactionRecord
}

// DailySummary представляет сводку итогов дня
type DailySummary struct {
	Date       time.Time
	Orders     SubsetStats
	Retail     SubsetStats
	TotalSales SubsetStats
	Payments   SubsetStats

	TopCustomers []Rollup // топ-3 по заказам
	TopPayers    []Rollup // топ-3 по платежам

	UniqueCustomers int
	UniquePayers    int

	// Конверсия платежей в процентах; nil, когда продаж нет
	Conversion *decimal.Decimal
}

// Organization представляет данные организации из МойСклад
type Organization struct {
	Name  string
	INN   string
	Email string
	Phone string
}

// UserRecord представляет запись пользователя в хранилище токенов
type UserRecord struct {
	Token        string    `json:"moysklad_token,omitempty"`
	Username     string    `json:"username,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	OrgName      string    `json:"organization_name,omitempty"`
	OrgINN       string    `json:"organization_inn,omitempty"`
	OrgEmail     string    `json:"organization_email,omitempty"`
	LastActivity time.Time `json:"last_activity,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// LinkedUser представляет пользователя с привязанным токеном
type LinkedUser struct {
	UserID       int64
	Username     string
	FirstName    string
	LastName     string
	OrgName      string
	LastActivity time.Time
}
