// handlers/registry_handler.go
//
// CRUD for the master data registries. These are flat reference tables; the
// lifecycle core only ever reads them, at transfer/edit time, to denormalize
// names and codes onto assets.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

func registryList(w http.ResponseWriter, r *http.Request, collection string, out interface{}, filters ...store.Filter) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := store.Query{Filters: filters, OrderBy: "name"}
	if err := db.Find(ctx, collection, q, out); err != nil {
		log.Printf("%s Find error: %v", collection, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	// Never respond with null for an empty registry.
	if v := reflect.ValueOf(out).Elem(); v.IsNil() {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func registryCreate(w http.ResponseWriter, r *http.Request, collection, action string, doc interface{}) {
	actor := actorFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := db.Insert(ctx, collection, doc)
	if err != nil {
		log.Printf("insert into %s error: %v", collection, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	writeAudit(ctx, actor, action, strings.TrimSuffix(collection, "s"), id, nil)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func registryUpdate(w http.ResponseWriter, r *http.Request, collection, action string, partial map[string]interface{}) {
	actor := actorFromRequest(r)

	id := mux.Vars(r)["id"]
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "id required")
		return
	}
	if len(partial) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.Update(ctx, collection, id, partial); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "record not found")
			return
		}
		log.Printf("update %s error: %v", collection, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update record")
		return
	}

	writeAudit(ctx, actor, action, strings.TrimSuffix(collection, "s"), id, bson.M(partial))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func registryDelete(w http.ResponseWriter, r *http.Request, collection, action string) {
	actor := actorFromRequest(r)

	id := mux.Vars(r)["id"]
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "record not found")
			return
		}
		log.Printf("delete from %s error: %v", collection, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	writeAudit(ctx, actor, action, strings.TrimSuffix(collection, "s"), id, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// setIfPresent flattens a typed request into a partial update.
func setIfPresent(partial map[string]interface{}, field, value string) {
	if value != "" {
		partial[field] = value
	}
}

// ==================== COMPANIES ====================

func ListCompanies(w http.ResponseWriter, r *http.Request) {
	var companies []models.Company
	registryList(w, r, companyCollection, &companies)
}

func CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name and code")
		return
	}
	registryCreate(w, r, companyCollection, "company_create", models.Company{
		Name:      req.Name,
		Code:      req.Code,
		CreatedAt: time.Now().UTC(),
	})
}

func UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	partial := map[string]interface{}{}
	setIfPresent(partial, "name", req.Name)
	setIfPresent(partial, "code", req.Code)
	registryUpdate(w, r, companyCollection, "company_update", partial)
}

func DeleteCompany(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, companyCollection, "company_delete")
}

// ==================== BRANCHES ====================

func ListBranches(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	if companyID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "company id required")
		return
	}
	var branches []models.Branch
	registryList(w, r, branchCollection, &branches, store.Eq("companyId", companyID))
}

func CreateBranch(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	if companyID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "company id required")
		return
	}

	var req struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		Location     string `json:"location"`
		LocationCode string `json:"locationCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name and code")
		return
	}

	registryCreate(w, r, branchCollection, "branch_create", models.Branch{
		CompanyID:    companyID,
		Name:         req.Name,
		Code:         req.Code,
		Location:     req.Location,
		LocationCode: req.LocationCode,
		CreatedAt:    time.Now().UTC(),
	})
}

func UpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		Location     string `json:"location"`
		LocationCode string `json:"locationCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	partial := map[string]interface{}{}
	setIfPresent(partial, "name", req.Name)
	setIfPresent(partial, "code", req.Code)
	setIfPresent(partial, "location", req.Location)
	setIfPresent(partial, "locationCode", req.LocationCode)
	registryUpdate(w, r, branchCollection, "branch_update", partial)
}

func DeleteBranch(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, branchCollection, "branch_delete")
}

// ==================== PRODUCTS ====================

func ListProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	registryList(w, r, productCollection, &products)
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name and code")
		return
	}
	registryCreate(w, r, productCollection, "product_create", models.Product{
		Name:      req.Name,
		Code:      req.Code,
		CreatedAt: time.Now().UTC(),
	})
}

func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	partial := map[string]interface{}{}
	setIfPresent(partial, "name", req.Name)
	setIfPresent(partial, "code", req.Code)
	registryUpdate(w, r, productCollection, "product_update", partial)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, productCollection, "product_delete")
}

// ==================== BRANDS ====================

func ListBrands(w http.ResponseWriter, r *http.Request) {
	var brands []models.Brand
	registryList(w, r, brandCollection, &brands)
}

func CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required field: name")
		return
	}
	registryCreate(w, r, brandCollection, "brand_create", models.Brand{
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	})
}

func DeleteBrand(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, brandCollection, "brand_delete")
}

// ==================== SUPPLIERS ====================

func ListSuppliers(w http.ResponseWriter, r *http.Request) {
	var suppliers []models.Supplier
	registryList(w, r, supplierCollection, &suppliers)
}

func CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required field: name")
		return
	}
	registryCreate(w, r, supplierCollection, "supplier_create", models.Supplier{
		Name:      req.Name,
		Contact:   req.Contact,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	})
}

func UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	partial := map[string]interface{}{}
	setIfPresent(partial, "name", req.Name)
	setIfPresent(partial, "contact", req.Contact)
	setIfPresent(partial, "email", req.Email)
	registryUpdate(w, r, supplierCollection, "supplier_update", partial)
}

func DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, supplierCollection, "supplier_delete")
}

// ==================== EMPLOYEES ====================

func ListEmployees(w http.ResponseWriter, r *http.Request) {
	var employees []models.Employee
	registryList(w, r, employeeCollection, &employees)
}

func CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		EmployeeNo string `json:"employeeNo"`
		Email      string `json:"email"`
		Department string `json:"department"`
		CompanyID  string `json:"companyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.EmployeeNo == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name and employeeNo")
		return
	}
	registryCreate(w, r, employeeCollection, "employee_create", models.Employee{
		Name:       req.Name,
		EmployeeNo: req.EmployeeNo,
		Email:      req.Email,
		Department: req.Department,
		CompanyID:  req.CompanyID,
		CreatedAt:  time.Now().UTC(),
	})
}

func UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		EmployeeNo string `json:"employeeNo"`
		Email      string `json:"email"`
		Department string `json:"department"`
		CompanyID  string `json:"companyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	partial := map[string]interface{}{}
	setIfPresent(partial, "name", req.Name)
	setIfPresent(partial, "employeeNo", req.EmployeeNo)
	setIfPresent(partial, "email", req.Email)
	setIfPresent(partial, "department", req.Department)
	setIfPresent(partial, "companyId", req.CompanyID)
	registryUpdate(w, r, employeeCollection, "employee_update", partial)
}

func DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	registryDelete(w, r, employeeCollection, "employee_delete")
}
