package service

import (
	"commentary-check/pkg/loader"
	"commentary-check/pkg/model"
	"commentary-check/pkg/rule"

	"github.com/pkg/errors"
)

// ProcessedRecord 单个文件的处理结果。格式错误不算失败，记录在 Malformed 中
type ProcessedRecord struct {
	Ref       loader.RecordRef
	Record    *model.ArticleRecord
	Findings  []model.Finding
	Malformed *loader.MalformedRecordError
}

type RecordProcessor struct {
	engine *rule.Engine
}

func NewRecordProcessor(engine *rule.Engine) *RecordProcessor {
	return &RecordProcessor{engine: engine}
}

// Process 解析并检查一条记录。只有非格式类的错误才会返回 error
func (p *RecordProcessor) Process(ref loader.RecordRef, data []byte) (*ProcessedRecord, error) {
	result := &ProcessedRecord{Ref: ref}

	record, err := loader.Parse(ref, data)
	if err != nil {
		var malformed *loader.MalformedRecordError
		if errors.As(err, &malformed) {
			result.Malformed = malformed
			return result, nil
		}
		return nil, errors.Wrapf(err, "解析记录失败 %s", ref.Path)
	}
	result.Record = record

	// 删除条文不参与检查
	if record.IsDeleted {
		return result, nil
	}
	result.Findings = p.engine.Evaluate(record)
	return result, nil
}
