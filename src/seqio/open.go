package seqio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mholt/archiver"
	pkgerrors "github.com/pkg/errors"

	"github.com/fbreitwieser/Mash/src/misc"
)

// STDIN is the source name used for standard input
const STDIN = "-"

var (
	// ErrNoSequences is returned for a source that holds no records
	ErrNoSequences = errors.New("no sequences found")

	// ErrUnknownFormat is returned when a source is neither FASTA nor FASTQ
	ErrUnknownFormat = errors.New("input is not FASTA or FASTQ")
)

// s3Client is the subset of the s3 client used here, so tests can swap in a fake
type s3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// newS3Client constructs an s3 client from the default credential chain
var newS3Client = func(ctx context.Context) (s3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// decompressors maps file extensions onto the archiver format used to read them
var decompressors = map[string]func() archiver.Decompressor{
	".gz":  func() archiver.Decompressor { return &archiver.Gz{} },
	".bz2": func() archiver.Decompressor { return &archiver.Bz2{} },
	".xz":  func() archiver.Decompressor { return &archiver.Xz{} },
	".lz4": func() archiver.Decompressor { return &archiver.Lz4{} },
	".sz":  func() archiver.Decompressor { return &archiver.Snappy{} },
}

// gzipMagic is checked for on sources without a recognised extension (including STDIN)
var gzipMagic = []byte{0x1f, 0x8b}

// IsRemote reports whether a name refers to an s3 object
func IsRemote(name string) bool {
	return strings.HasPrefix(name, "s3://")
}

// Open returns a decompressed stream for STDIN ("-"), a local path or an s3://bucket/key URI
func Open(source string) (io.ReadCloser, error) {
	raw, err := OpenRaw(source)
	if err != nil {
		return nil, err
	}
	if newDecompressor, ok := decompressors[strings.ToLower(filepath.Ext(source))]; ok {
		return decompress(raw, raw, newDecompressor()), nil
	}
	br := bufio.NewReader(raw)
	if magic, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(magic, gzipMagic) {
		return decompress(br, raw, &archiver.Gz{}), nil
	}
	return &bufferedCloser{Reader: br, closer: raw}, nil
}

// OpenRaw opens the underlying stream of a source without any decompression
func OpenRaw(source string) (io.ReadCloser, error) {
	switch {
	case source == STDIN:
		if err := misc.CheckSTDIN(); err != nil {
			return nil, err
		}
		return io.NopCloser(os.Stdin), nil
	case IsRemote(source):
		bucket, key, err := splitS3(source)
		if err != nil {
			return nil, err
		}
		ctx := context.Background()
		client, err := newS3Client(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to create s3 client")
		}
		resp, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to fetch %s", source)
		}
		return resp.Body, nil
	default:
		fh, err := os.Open(source)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to open %s", source)
		}
		return fh, nil
	}
}

// decompress streams the decompressed contents of r through a pipe, closing closer once the reader is done
func decompress(r io.Reader, closer io.Closer, d archiver.Decompressor) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(d.Decompress(r, pw))
	}()
	return &pipeCloser{PipeReader: pr, closer: closer}
}

type pipeCloser struct {
	*io.PipeReader
	closer io.Closer
}

func (pipeCloser *pipeCloser) Close() error {
	pipeCloser.PipeReader.Close()
	return pipeCloser.closer.Close()
}

type bufferedCloser struct {
	*bufio.Reader
	closer io.Closer
}

func (bufferedCloser *bufferedCloser) Close() error {
	return bufferedCloser.closer.Close()
}

// Create returns a writer for a local path or an s3://bucket/key URI, s3 objects are uploaded on Close
func Create(name string) (io.WriteCloser, error) {
	if !IsRemote(name) {
		if dir := filepath.Dir(name); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, pkgerrors.Wrapf(err, "failed to create directory for %s", name)
			}
		}
		fh, err := os.Create(name)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to create %s", name)
		}
		return fh, nil
	}
	bucket, key, err := splitS3(name)
	if err != nil {
		return nil, err
	}
	return &s3Writer{bucket: bucket, key: key}, nil
}

// s3Writer buffers an object in memory and uploads it when closed
type s3Writer struct {
	bytes.Buffer
	bucket string
	key    string
	closed bool
}

func (s3Writer *s3Writer) Close() error {
	if s3Writer.closed {
		return nil
	}
	s3Writer.closed = true
	ctx := context.Background()
	client, err := newS3Client(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create s3 client")
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s3Writer.bucket),
		Key:    aws.String(s3Writer.key),
		Body:   bytes.NewReader(s3Writer.Bytes()),
	})
	return pkgerrors.Wrapf(err, "failed to upload s3://%s/%s", s3Writer.bucket, s3Writer.key)
}

// splitS3 returns the bucket and key of an s3 URI
func splitS3(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", pkgerrors.Wrapf(err, "bad s3 URI %s", uri)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", errors.New("s3 URI needs a bucket and a key: " + uri)
	}
	return u.Host, key, nil
}
