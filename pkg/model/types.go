package model

import internalmodel "github.com/grantflow/formkit/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeNumber   = internalmodel.FieldTypeNumber
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeDropdown = internalmodel.FieldTypeDropdown
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
	FieldTypeFile     = internalmodel.FieldTypeFile
)

const (
	DefaultTitle       = internalmodel.DefaultTitle
	DefaultDescription = internalmodel.DefaultDescription
)

type ExtraAttributes = internalmodel.ExtraAttributes
type Field = internalmodel.Field
type FormDocument = internalmodel.FormDocument
type AnswerSet = internalmodel.AnswerSet

var (
	FieldTypes     = internalmodel.FieldTypes
	ValidFieldType = internalmodel.ValidFieldType
	NewField       = internalmodel.NewField
	MustNewField   = internalmodel.MustNewField

	NewFormDocument    = internalmodel.NewFormDocument
	ParseFormDocument  = internalmodel.ParseFormDocument
	EncodeFormDocument = internalmodel.EncodeFormDocument

	CoerceNumber = internalmodel.CoerceNumber
	CoerceString = internalmodel.CoerceString
)
