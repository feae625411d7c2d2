// Package utils provides small helpers shared by the actions.
package utils
