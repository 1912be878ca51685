package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"book-catalog/internal/models"
	"book-catalog/internal/store"
	"book-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const MsgTitleRequired = "Title is required"

// BookHandler 负责图书列表、详情和新建
type BookHandler struct {
	Store store.Store
}

func NewBookHandler(st store.Store) *BookHandler {
	return &BookHandler{Store: st}
}

// BookView 是带作者信息的图书，作者不存在时 Author 为空值
type BookView struct {
	Book   models.Book
	Author models.Author
}

// joinAuthors 按 author_id 为每本书解析作者，保持图书原有顺序
func joinAuthors(books []models.Book, authors []models.Author) []BookView {
	byID := make(map[string]models.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, BookView{Book: b, Author: byID[b.AuthorID]})
	}
	return views
}

// catalog 读取全部图书并关联作者
func (h *BookHandler) catalog() ([]BookView, []models.Author, error) {
	books, err := h.Store.Books()
	if err != nil {
		return nil, nil, err
	}
	authors, err := h.Store.Authors()
	if err != nil {
		return nil, nil, err
	}
	return joinAuthors(books, authors), authors, nil
}

func (h *BookHandler) renderList(c *gin.Context, errs []string) {
	views, authors, err := h.catalog()
	if err != nil {
		log.Printf("list books: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not load books")
		return
	}
	render(c, http.StatusOK, "books.html", gin.H{
		"title":   "Books",
		"books":   views,
		"authors": authors,
		"errors":  errs,
	})
}

// ListBooks GET /books
func (h *BookHandler) ListBooks(c *gin.Context) {
	h.renderList(c, nil)
}

type createBookForm struct {
	Title    string `form:"title"`
	AuthorID string `form:"author_id"`
}

// CreateBook POST /createBook
func (h *BookHandler) CreateBook(c *gin.Context) {
	var form createBookForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderList(c, []string{MsgTitleRequired})
		return
	}

	form.Title = strings.TrimSpace(form.Title)
	form.AuthorID = strings.TrimSpace(form.AuthorID)
	if form.Title == "" {
		h.renderList(c, []string{MsgTitleRequired})
		return
	}

	book := models.Book{
		ID:       uuid.NewString(),
		Title:    form.Title,
		AuthorID: form.AuthorID,
	}
	if err := h.Store.AddBook(book); err != nil {
		log.Printf("create book: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not save the book")
		return
	}

	c.Redirect(http.StatusFound, "/books")
}

// ShowBook GET /books/:id
// 图书不存在返回 404；作者不存在时显示空作者。
func (h *BookHandler) ShowBook(c *gin.Context) {
	book, err := h.Store.FindBook(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render(c, http.StatusNotFound, "book.html", gin.H{
				"title":    "Book not found",
				"notFound": true,
				"book":     models.Book{},
				"author":   models.Author{},
			})
			return
		}
		log.Printf("find book: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not load the book")
		return
	}

	author, err := h.Store.FindAuthor(book.AuthorID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("find author: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not load the author")
		return
	}

	render(c, http.StatusOK, "book.html", gin.H{
		"title":  book.Title,
		"book":   book,
		"author": author,
	})
}
