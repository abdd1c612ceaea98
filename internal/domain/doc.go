// Package domain contains the core entities of the URL analysis pipeline:
// processed results, evaluation scores, and the status vocabulary emitted as
// a URL moves through processing and evaluation. The package has no
// dependencies outside the standard library so that every other layer can
// import it freely.
package domain
