package wallet

import "errors"

var (
	// ErrWalletNotFound возвращается, когда у пользователя нет кошелька
	ErrWalletNotFound = errors.New("wallet.repository: wallet not found")

	// ErrInsufficientCredits возвращается, когда на балансе меньше кредитов, чем требуется списать
	ErrInsufficientCredits = errors.New("wallet.repository: insufficient credits")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("wallet.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("wallet.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("wallet.repository: failed to scan row")
)
