package pricing

import "errors"

// ErrInvalidFeeInput возвращается при отрицательной цене или проценте вне [0, 100]
var ErrInvalidFeeInput = errors.New("pricing: invalid fee input")
