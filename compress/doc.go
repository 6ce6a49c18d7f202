// Package compress provides the codecs used to compress report artifacts.
//
// Every codec produces a self-describing stream in the algorithm's standard
// file format, so a compressed artifact can be opened with the usual command
// line tool (zstd, s2d, lz4, xz):
//
//	Type                      | Extension | Implementation
//	--------------------------|-----------|-------------------------------------
//	format.CompressionNone    |           | pass-through
//	format.CompressionZstd    | .zst      | klauspost/compress/zstd, or valyala/gozstd with the cgo_zstd tag
//	format.CompressionS2      | .s2       | klauspost/compress/s2 stream format
//	format.CompressionLZ4     | .lz4      | pierrec/lz4 frame format
//	format.CompressionXZ      | .xz       | ulikunitz/xz
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(report)
//
// All codecs are safe for concurrent use.
package compress
