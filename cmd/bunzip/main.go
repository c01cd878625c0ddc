package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dargueta/pixcodec/codecs/bzip2"
	"github.com/dargueta/pixcodec/utilities/compression"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(
			os.Stderr,
			"Uncompress a BZip2 file.\nUsage: %s input-file output-file\n",
			os.Args[0])
		os.Exit(1)
	}

	sourceFilePath := os.Args[1]
	outputFilePath := os.Args[2]

	sourceFile, errSrc := os.Open(sourceFilePath)
	if errSrc != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for reading: `%v`: %s\n", sourceFilePath, errSrc)
		os.Exit(1)
	}
	defer sourceFile.Close()

	outFile, errOut := os.Create(outputFilePath)
	if errOut != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for writing: `%v`: %s\n", outputFilePath, errOut)
		os.Exit(1)
	}
	defer outFile.Close()

	codec := bzip2.New()
	codec.Logger = log.New(os.Stderr, "warning: ", 0)

	nWritten, err := compression.DecompressStream(codec, nil, sourceFile, outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding file: %s\n", err)
		os.Exit(2)
	}

	fmt.Printf("Expanded input file to %d bytes.\n", nWritten)
}
