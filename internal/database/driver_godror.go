//go:build cgo

package database

import (
	_ "github.com/godror/godror" // Oracle driver (cgo, driver name "godror")
)
