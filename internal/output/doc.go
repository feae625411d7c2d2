// Package output prints st's messages, colors and branch trees.
package output
