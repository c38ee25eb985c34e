package task

import "encoding/json"

// Metadata keys stamped on scene objects so a later export reads back what an import wrote.
const (
	MetaModel              = "AB_model"
	MetaObjectID           = "AB_objectId"
	MetaInternalPath       = "AB_internalPath"
	MetaRelativeExportPath = "AB_relativeExportPath"
	MetaExportLocation     = "AB_exportLocation"
	MetaStringType         = "AB_stringType"
	MetaObjectMaterials    = "AB_objectMaterials"
)

// Metadata returns the key/value pairs stamped for u, in a fixed order.
func (u ExportUnit) Metadata() [][2]string {
	materials, _ := json.Marshal(u.ObjectMaterials)
	return [][2]string{
		{MetaModel, u.Model},
		{MetaObjectID, u.ObjectID},
		{MetaInternalPath, u.InternalPath},
		{MetaRelativeExportPath, u.RelativeExportPath},
		{MetaExportLocation, u.ExportLocation},
		{MetaStringType, string(u.StringType)},
		{MetaObjectMaterials, string(materials)},
	}
}

// DecodeMaterials parses a stamped material list. It returns nil for empty or invalid input.
func DecodeMaterials(s string) []Material {
	if s == "" {
		return nil
	}
	var out []Material
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
