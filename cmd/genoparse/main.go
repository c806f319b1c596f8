// Command genoparse parses FASTA, FASTQ and GTF files, plain or compressed.
package main

import (
	"genoparse/internal/app"
	"genoparse/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
