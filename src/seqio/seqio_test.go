package seqio

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fbreitwieser/Mash/src/minhash"
	"github.com/fbreitwieser/Mash/src/params"
)

// setup variables
var (
	fastaData = ">seq1 first test sequence\nacagcaggaaggcttactgg\nagaaacgtatcgac\n>seq2\nTTGACCRYAGT\n"
	fastqData = "@read1 lane 1\nACAGCAGGAAGGCTTACTGG\n+\n====@==@AAD?>D@@==DA\n@read2\nacgtnacgt\n+\n=========\n"
	protData  = ">prot1 a peptide\nmkvlaagivg*llla\n"
)

// test results
var (
	expectedSeq1 = []byte("ACAGCAGGAAGGCTTACTGGAGAAACGTATCGAC")
	expectedSeq2 = []byte("TTGACCNNAGT")
)

type fakeS3 struct {
	getBody    []byte
	putBucket  string
	putKey     string
	putBody    []byte
	getRequest string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getRequest = aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.getBody))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putBucket = aws.ToString(in.Bucket)
	f.putKey = aws.ToString(in.Key)
	f.putBody, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func withFakeS3(f *fakeS3) func() {
	old := newS3Client
	newS3Client = func(ctx context.Context) (s3Client, error) { return f, nil }
	return func() { newS3Client = old }
}

func readAll(t *testing.T, r io.Reader, alpha params.Alphabet) ([]*Sequence, Format) {
	reader, err := NewReader(r, alpha)
	if err != nil {
		t.Fatal(err)
	}
	records := []*Sequence{}
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, record)
	}
	return records, reader.Format()
}

func gzipped(t *testing.T, data string) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// begin the tests
func TestBaseCheck(t *testing.T) {
	s := &Sequence{Seq: []byte("acgtRYkmACGT")}
	s.BaseCheck(params.Nucleotide)
	if !bytes.Equal(s.Seq, []byte("ACGTNNNNACGT")) {
		t.Fatalf("BaseCheck method failed: %s", s.Seq)
	}
	p := &Sequence{Seq: []byte("mkv*L")}
	p.BaseCheck(params.Protein)
	if !bytes.Equal(p.Seq, []byte("MKV*L")) {
		t.Fatalf("BaseCheck method failed for protein: %s", p.Seq)
	}
}

func TestFASTA(t *testing.T) {
	records, format := readAll(t, strings.NewReader(fastaData), params.Nucleotide)
	if format != FASTA {
		t.Fatalf("wrong format detected: %v", format)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "seq1" || records[0].Comment != "first test sequence" {
		t.Fatalf("bad header decoding: %q %q", records[0].ID, records[0].Comment)
	}
	if !bytes.Equal(records[0].Seq, expectedSeq1) {
		t.Fatalf("multi-line record not joined and upper cased: %s", records[0].Seq)
	}
	if !bytes.Equal(records[1].Seq, expectedSeq2) {
		t.Fatalf("ambiguous bases not masked: %s", records[1].Seq)
	}
}

func TestFASTQ(t *testing.T) {
	records, format := readAll(t, strings.NewReader(fastqData), params.Nucleotide)
	if format != FASTQ {
		t.Fatalf("wrong format detected: %v", format)
	}
	if len(records) != 2 || records[0].ID != "read1" || records[1].Len() != 9 {
		t.Fatal("FASTQ reads were not decoded")
	}
	if string(records[1].Seq) != "ACGTNACGT" {
		t.Fatalf("read not upper cased: %s", records[1].Seq)
	}
}

func TestProteinRecords(t *testing.T) {
	records, _ := readAll(t, strings.NewReader(protData), params.Protein)
	if len(records) != 1 || string(records[0].Seq) != "MKVLAAGIVG*LLLA" {
		t.Fatal("protein record was not decoded")
	}
}

func TestBadInput(t *testing.T) {
	if _, err := NewReader(strings.NewReader(""), params.Nucleotide); !errors.Is(err, ErrNoSequences) {
		t.Fatalf("empty input should give ErrNoSequences, got %v", err)
	}
	if _, err := NewReader(strings.NewReader("\n\n"), params.Nucleotide); !errors.Is(err, ErrNoSequences) {
		t.Fatalf("blank input should give ErrNoSequences, got %v", err)
	}
	if _, err := NewReader(strings.NewReader("ACGT\n"), params.Nucleotide); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("headerless input should give ErrUnknownFormat, got %v", err)
	}
}

func TestRunMinHash(t *testing.T) {
	mh := minhash.NewKMVsketch(7, 10)
	short := &Sequence{Seq: []byte("ACG")}
	if err := short.RunMinHash(mh); err != nil {
		t.Fatalf("a sequence shorter than k should be skipped, got %v", err)
	}
	long := &Sequence{Seq: expectedSeq1}
	if err := long.RunMinHash(mh); err != nil {
		t.Fatal(err)
	}
	if len(mh.GetSketch()) != 10 {
		t.Fatal("sketch was not filled")
	}
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "seqs.fa")
	if err := os.WriteFile(plain, []byte(fastaData), 0644); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "seqs.fa.gz")
	if err := os.WriteFile(compressed, gzipped(t, fastaData), 0644); err != nil {
		t.Fatal(err)
	}

	// a gzip stream without the extension is sniffed
	sniffed := filepath.Join(dir, "seqs.dat")
	if err := os.WriteFile(sniffed, gzipped(t, fastaData), 0644); err != nil {
		t.Fatal(err)
	}
	for _, source := range []string{plain, compressed, sniffed} {
		fh, err := Open(source)
		if err != nil {
			t.Fatal(err)
		}
		records, _ := readAll(t, fh, params.Nucleotide)
		if err := fh.Close(); err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 || !bytes.Equal(records[0].Seq, expectedSeq1) {
			t.Fatalf("could not read %s", source)
		}
	}
	if _, err := Open(filepath.Join(dir, "missing.fa")); err == nil {
		t.Fatal("opening a missing file should fail")
	}
}

func TestOpenS3(t *testing.T) {
	f := &fakeS3{getBody: gzipped(t, fastqData)}
	defer withFakeS3(f)()
	fh, err := Open("s3://bucket/runs/reads.fq.gz")
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	if f.getRequest != "bucket/runs/reads.fq.gz" {
		t.Fatalf("wrong object requested: %s", f.getRequest)
	}
	records, format := readAll(t, fh, params.Nucleotide)
	if format != FASTQ || len(records) != 2 {
		t.Fatal("could not read s3 object")
	}
	if _, err := Open("s3://bucket"); err == nil {
		t.Fatal("an s3 URI without a key should fail")
	}
}

func TestCreate(t *testing.T) {
	local := filepath.Join(t.TempDir(), "sub", "out.msh")
	w, err := Create(local)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(local); string(b) != "abc" {
		t.Fatalf("file content: %q", b)
	}

	f := &fakeS3{}
	defer withFakeS3(f)()
	w, err = Create("s3://mybucket/dir/out.msh")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if f.putBucket != "mybucket" || f.putKey != "dir/out.msh" || string(f.putBody) != "payload" {
		t.Fatalf("bad upload: %s %s %q", f.putBucket, f.putKey, f.putBody)
	}
}
