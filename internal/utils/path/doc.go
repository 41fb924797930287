// Package pathutils normalizes configured directories and compares their nesting.
package pathutils
