package flatfiles

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"meridian-api/pkg/marketdata"
)

// TradeRecord is one row of a trades flat file.
type TradeRecord struct {
	Ticker               string  `csv:"ticker"`
	Conditions           string  `csv:"conditions"`
	Exchange             int     `csv:"exchange"`
	Price                float64 `csv:"price"`
	Size                 float64 `csv:"size"`
	SequenceNumber       int64   `csv:"sequence_number"`
	SIPTimestamp         int64   `csv:"sip_timestamp"`
	ParticipantTimestamp int64   `csv:"participant_timestamp"`
}

// Time is the SIP timestamp as UTC wall time.
func (r TradeRecord) Time() time.Time { return marketdata.TimeFromNanos(r.SIPTimestamp) }

// QuoteRecord is one row of a quotes flat file.
type QuoteRecord struct {
	Ticker         string  `csv:"ticker"`
	AskExchange    int     `csv:"ask_exchange"`
	AskPrice       float64 `csv:"ask_price"`
	AskSize        float64 `csv:"ask_size"`
	BidExchange    int     `csv:"bid_exchange"`
	BidPrice       float64 `csv:"bid_price"`
	BidSize        float64 `csv:"bid_size"`
	SequenceNumber int64   `csv:"sequence_number"`
	SIPTimestamp   int64   `csv:"sip_timestamp"`
}

// Time is the SIP timestamp as UTC wall time.
func (r QuoteRecord) Time() time.Time { return marketdata.TimeFromNanos(r.SIPTimestamp) }

// ReadTrades decodes a trades flat file, accepting the stream either
// gzip-compressed as stored or already decompressed.
func ReadTrades(r io.Reader) ([]TradeRecord, error) {
	body, err := decompress(r)
	if err != nil {
		return nil, err
	}
	var records []TradeRecord
	if err := gocsv.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("meridian: decode trade records: %w", err)
	}
	return records, nil
}

// ReadQuotes decodes a quotes flat file; same stream handling as ReadTrades.
func ReadQuotes(r io.Reader) ([]QuoteRecord, error) {
	body, err := decompress(r)
	if err != nil {
		return nil, err
	}
	var records []QuoteRecord
	if err := gocsv.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("meridian: decode quote records: %w", err)
	}
	return records, nil
}

// decompress sniffs the gzip magic bytes and wraps the stream accordingly.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("meridian: read flat file: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("meridian: open gzip stream: %w", err)
		}
		return zr, nil
	}
	return br, nil
}
