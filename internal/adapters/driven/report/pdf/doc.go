// Package pdf writes daily energy reports as A4 PDF documents using gofpdf.
package pdf
