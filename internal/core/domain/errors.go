package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrAccessDenied = errors.New("access to empresa denied")
var ErrNoEmpresaSelected = errors.New("no empresa selected")
var ErrKeyNotFound = errors.New("storage key not found")
