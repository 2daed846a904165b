package ledger

import (
	"context"
	"time"
)

type StubRecordRepo struct {
	records map[string]UserRecord
	metas   map[string]RecordMeta
}

func NewStubRecordRepo() *StubRecordRepo {
	return &StubRecordRepo{
		records: map[string]UserRecord{},
		metas:   map[string]RecordMeta{},
	}
}

func (s *StubRecordRepo) Load(ctx context.Context, email string) (UserRecord, error) {
	record, ok := s.records[email]
	if !ok {
		return UserRecord{}, ErrRecordNotFound
	}
	return record, nil
}

func (s *StubRecordRepo) Save(ctx context.Context, email string, record UserRecord) error {
	if _, ok := s.records[email]; !ok {
		return ErrRecordNotFound
	}
	s.records[email] = record
	return nil
}

func (s *StubRecordRepo) Create(ctx context.Context, email string, uid string, record UserRecord) error {
	if _, ok := s.records[email]; ok {
		return ErrRecordExists
	}
	s.records[email] = record
	s.metas[email] = RecordMeta{Uid: uid, CreatedAt: time.Now()}
	return nil
}

func (s *StubRecordRepo) Meta(ctx context.Context, email string) (RecordMeta, error) {
	meta, ok := s.metas[email]
	if !ok {
		return RecordMeta{}, ErrRecordNotFound
	}
	return meta, nil
}
