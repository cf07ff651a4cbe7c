/*
Package utils contains the decorators wrapping every transaction processed
by the application: logging, panic recovery, savepoints and action tags.
*/
package utils
